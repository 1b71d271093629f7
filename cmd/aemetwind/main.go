package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/lanecodes/aemet-wind/internal/app"
	"github.com/lanecodes/aemet-wind/internal/config"
	"github.com/lanecodes/aemet-wind/internal/server/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Panicf("failed to load configuration: %v", err)
	}

	l := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "aemet-wind").
		Logger()

	m := metrics.NewMetrics("aemet_wind")

	application := app.New(*cfg, l, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		l.Fatal().Err(err).Msg("application failed to run")
	}
}
