package main

import (
	"bazaar/config"
	"bazaar/di"
	"bazaar/helper"
	"bazaar/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Bazaar Booking API
// @version 1.0
// @description Slot catalog, pricing and booking submission for the service marketplace.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
