package config

import (
	"os"

	"devzora-control-center/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	RedisAddr     string
	CORSOrigin    string
	LogLevel      string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		CORSOrigin:    os.Getenv("CORS_ORIGIN"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if cfg.DBDSN == "" {
		logger.Log.Fatal().Msg("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		logger.Log.Fatal().Msg("SESSION_SECRET is not set")
	}
	if cfg.CORSOrigin == "" {
		// frontend dev server
		cfg.CORSOrigin = "http://localhost:5173"
	}

	return cfg
}
