package main

import (
	"context"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/config"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/obs"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

func main() {
	if !config.LoadEnv() {
		log.Info().Msg("no .env file found (using environment variables)")
	}
	obs.SetupLogger(config.Get("COURIER_ENVIRONMENT", "development"), "info")

	databaseURL := config.Get("COURIER_DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal().Msg("COURIER_DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open database")
	}
	defer conn.Close()

	seedPath := config.Get("COURIER_SEED_PATH", "data/seeds/deliveries.json")
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info().Msg("schema ready")

	log.Info().Str("path", seedPath).Msg("seeding database")
	n, err := repositories.SeedFromJSON(ctx, conn, db.Postgres, seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Info().Int("deliveries", n).Msg("seeding complete")

	return nil
}
