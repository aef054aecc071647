package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"giftcard-store/internal/config"
	"giftcard-store/internal/db"
	"giftcard-store/internal/importer"
	"giftcard-store/internal/logging"
	categoryrepo "giftcard-store/internal/repository/category"
	productrepo "giftcard-store/internal/repository/product"

	"github.com/rs/zerolog"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to gift card catalog CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := logging.New(logging.Options{Service: "importer", Level: cfg.LogLevel, Console: true})

	if err := run(context.Background(), cfg, logger, filePath); err != nil {
		logger.Error().Err(err).Msg("import failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, filePath string) error {
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool), logger)

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		return fmt.Errorf("after %d products: %w", res.Products, err)
	}

	logger.Info().
		Int("products", res.Products).
		Int("categories", res.Categories).
		Dur("took", time.Since(start).Truncate(time.Millisecond)).
		Msg("import finished")
	return nil
}
