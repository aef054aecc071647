package main

import (
	"context"
	"fmt"
	"os"

	"giftcard-store/internal/config"
	"giftcard-store/internal/db"
	"giftcard-store/internal/logging"
	categoryrepo "giftcard-store/internal/repository/category"
	productrepo "giftcard-store/internal/repository/product"
	"giftcard-store/internal/seed"

	"github.com/rs/zerolog"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(logging.Options{Service: "seed", Level: cfg.LogLevel, Console: true})

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
	logger.Info().Msg("seed applied")
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, productrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool)); err != nil {
		return fmt.Errorf("seed apply: %w", err)
	}
	return nil
}
