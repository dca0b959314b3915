package main

import (
	"os"

	"morsechat/internal/config"
	"morsechat/internal/db"
	clog "morsechat/internal/log"
	"morsechat/internal/server"

	"github.com/rs/zerolog/log"
)

func main() {
	// main 函数负责加载配置、初始化日志、连接数据库并启动 Gin 服务。
	cfg := config.Load()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("config file")
		}
		cfg = fileCfg
	}
	clog.Init(cfg.Env, cfg.LogLevel)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	gdb, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	r := server.SetupRouter(cfg, gdb)
	log.Info().Str("port", cfg.Port).Uint("privileged_account_id", cfg.PrivilegedAccountID).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
