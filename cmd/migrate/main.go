package main

import (
	"context"
	"flag"

	"giftcard-store/internal/config"
	"giftcard-store/internal/logging"
	"giftcard-store/internal/migrate"
)

func main() {
	var (
		down    int
		version bool
	)
	flag.IntVar(&down, "down", 0, "Roll back this many migration steps instead of applying")
	flag.BoolVar(&version, "version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg := config.FromEnv()
	logger := logging.New(logging.Options{Service: "migrate", Level: cfg.LogLevel, Console: true})
	ctx := context.Background()

	switch {
	case version:
		v, dirty, err := migrate.Version(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatal().Err(err).Msg("read schema version")
		}
		logger.Info().Uint("version", v).Bool("dirty", dirty).Msg("schema version")
	case down > 0:
		if err := migrate.Rollback(ctx, cfg.DBConnString, down); err != nil {
			logger.Fatal().Err(err).Int("steps", down).Msg("rollback migrations")
		}
		logger.Info().Int("steps", down).Msg("migrations rolled back")
	default:
		if err := migrate.Apply(ctx, cfg.DBConnString); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		logger.Info().Msg("migrations applied")
	}
}
