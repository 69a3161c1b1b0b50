package config

import (
	"log"
	"os"

	"RescueHub/pkg/logger"
	"RescueHub/pkg/util"
)

// config/config.go
type Config struct {
	DBDriver      string `env:"DB_DRIVER"`
	DSN           string `env:"DSN"`
	Addr          string `env:"ADDR"`
	Mode          string `env:"MODE"`
	APIPrefix     string `env:"API_PREFIX"`
	SessionSecret string `env:"SESSION_SECRET"`
	Log           logger.LogConfig

	// Province prefix stamped into rescue request codes, e.g. "SG".
	ProvinceCode string `env:"PROVINCE_CODE"`

	// Optional redis backend for cross-instance event fanout. Empty means
	// single-process broadcasting only.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Rate applied to the public submission endpoint, limiter format
	// ("20-M" = 20 per minute per client).
	SubmitRate string `env:"SUBMIT_RATE"`

	// Teams whose last location report is older than this many minutes are
	// swept to OFFLINE.
	TeamOfflineAfterMin int64 `env:"TEAM_OFFLINE_AFTER_MIN"`

	DefaultLang string `env:"DEFAULT_LANG"`
}

var GlobalConfig *Config

func Load() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	GlobalConfig = &Config{
		DBDriver:      util.GetEnv("DB_DRIVER"),
		DSN:           util.GetEnv("DSN"),
		Addr:          util.GetEnvDefault("ADDR", ":8000"),
		Mode:          util.GetEnv("MODE"),
		APIPrefix:     util.GetEnvDefault("API_PREFIX", "/api"),
		SessionSecret: util.GetEnvDefault("SESSION_SECRET", "rescuehub-dev"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		ProvinceCode:        util.GetEnvDefault("PROVINCE_CODE", "SG"),
		RedisAddr:           util.GetEnv("REDIS_ADDR"),
		RedisPassword:       util.GetEnv("REDIS_PASSWORD"),
		SubmitRate:          util.GetEnvDefault("SUBMIT_RATE", "20-M"),
		TeamOfflineAfterMin: util.GetIntEnv("TEAM_OFFLINE_AFTER_MIN"),
		DefaultLang:         util.GetEnvDefault("DEFAULT_LANG", "vi"),
	}
	if GlobalConfig.TeamOfflineAfterMin <= 0 {
		GlobalConfig.TeamOfflineAfterMin = 30
	}
	return nil
}
