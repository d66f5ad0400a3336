package main

import (
	"fmt"

	"devzora-control-center/internal/config"
	"devzora-control-center/internal/database"
	"devzora-control-center/internal/logger"
	"devzora-control-center/internal/server"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	database.Init(cfg.DBDSN)
	database.InitCache(cfg.RedisAddr)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Log.Info().Str("addr", addr).Msg("starting server")
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal().Err(err).Msg("server error")
	}
}
