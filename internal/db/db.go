package db

import (
	"fmt"
	"time"

	"morsechat/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Connect 按 driver 打开数据库。Postgres 会重试以等待容器就绪，SQLite 只保留一个连接。
func Connect(driver, dsn string) (*gorm.DB, error) {
	dial, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
	attempts := 10
	if driver == DriverSQLite {
		attempts = 1
	}
	var gdb *gorm.DB
	for i := 0; i < attempts; i++ {
		gdb, err = gorm.Open(dial, cfg)
		if err == nil {
			sqlDB, err2 := gdb.DB()
			if err2 == nil {
				if driver == DriverSQLite {
					sqlDB.SetMaxOpenConns(1)
				} else {
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetMaxOpenConns(20)
					sqlDB.SetConnMaxLifetime(time.Hour)
				}
				return gdb, nil
			}
			err = err2
		}
		if i+1 < attempts {
			time.Sleep(time.Duration(500+i*200) * time.Millisecond)
		}
	}
	return nil, err
}

// Migrate 自动迁移账号、聊天请求、消息和 refresh token 表。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&models.Account{}, &models.ChatRequest{}, &models.Message{}, &models.RefreshToken{})
}
