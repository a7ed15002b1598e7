package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/quokit/waitlist_api/middleware"
	"github.com/quokit/waitlist_api/services"
)

// @title Quok.it Waitlist API
// @version 1.0
// @description Waitlist intake and GPU network metrics backend
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.RedisService{},
		&services.PostgresService{},
		&services.MinIOService{},

		&services.RateLimitService{},
		&services.DuplicateGuardService{},
		&services.GeolocationService{},
		&services.WaitlistService{},
		&services.NetworkMetricsService{},

		&middleware.GatewayRateLimit{},
		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service context")
		return
	}

	if err = ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("Service context exited")
		return
	}
}
