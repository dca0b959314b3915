package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Port                  string
	Env                   string
	LogLevel              string
	DatabaseDriver        string
	DatabaseDSN           string
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLDays   int
	// PrivilegedAccountID 与任何账号收发消息都不需要聊天请求。
	PrivilegedAccountID uint
	// ReopenOnReject 为 true 时，请求被拒绝后双方可以重新发起。
	ReopenOnReject     bool
	CORSAllowedOrigins []string
}

var defaults = map[string]any{
	"APP_PORT":                      "8080",
	"APP_ENV":                       "dev",
	"LOG_LEVEL":                     "info",
	"DATABASE_DRIVER":               "postgres",
	"DATABASE_DSN":                  "host=localhost user=postgres password=postgres dbname=morsechat port=5432 sslmode=disable TimeZone=UTC",
	"JWT_SECRET":                    defaultJWTSecret,
	"ACCESS_TOKEN_TTL_MINUTES":      15,
	"REFRESH_TOKEN_TTL_DAYS":        7,
	"PRIVILEGED_ACCOUNT_ID":         1,
	"CHAT_REQUEST_REOPEN_ON_REJECT": true,
	"CORS_ALLOWED_ORIGINS":          "",
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return v
}

// Load 从环境变量读取配置，缺省时使用默认值。
func Load() Config {
	return fromViper(newViper())
}

// LoadFile 先读 YAML 文件，环境变量仍然优先。
func LoadFile(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	accessTTL := v.GetInt("ACCESS_TOKEN_TTL_MINUTES")
	if accessTTL <= 0 {
		accessTTL = defaults["ACCESS_TOKEN_TTL_MINUTES"].(int)
	}
	refreshTTL := v.GetInt("REFRESH_TOKEN_TTL_DAYS")
	if refreshTTL <= 0 {
		refreshTTL = defaults["REFRESH_TOKEN_TTL_DAYS"].(int)
	}
	privileged := v.GetInt("PRIVILEGED_ACCOUNT_ID")
	if privileged <= 0 {
		privileged = defaults["PRIVILEGED_ACCOUNT_ID"].(int)
	}
	return Config{
		Port:                  v.GetString("APP_PORT"),
		Env:                   v.GetString("APP_ENV"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		DatabaseDriver:        strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:           v.GetString("DATABASE_DSN"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		AccessTokenTTLMinutes: accessTTL,
		RefreshTokenTTLDays:   refreshTTL,
		PrivilegedAccountID:   uint(privileged),
		ReopenOnReject:        v.GetBool("CHAT_REQUEST_REOPEN_ON_REJECT"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate 拒绝不能用于启动服务的配置。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: APP_PORT is empty")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: DATABASE_DSN is empty")
	}
	switch cfg.DatabaseDriver {
	case "", "postgres", "sqlite":
	default:
		return errors.New("config: DATABASE_DRIVER must be postgres or sqlite")
	}
	if cfg.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is empty")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == defaultJWTSecret {
		return errors.New("config: default JWT_SECRET outside dev")
	}
	return nil
}
