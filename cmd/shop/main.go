// Command shop is the storefront client: it browses the catalog, keeps a
// local cart between runs and checks out against the api.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"giftcard-store/internal/cart"
	"giftcard-store/internal/cart/store"
	"giftcard-store/internal/client"
	"giftcard-store/internal/config"
	"giftcard-store/internal/logging"

	"github.com/rs/zerolog"
)

func main() {
	cfg := config.ShopFromEnv()
	logger := logging.New(logging.Options{Service: "shop", Level: cfg.LogLevel, Console: true, Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		fatal(fmt.Errorf("create %s: %w", cfg.Home, err))
	}

	snapshots, closeStore, err := openCartStore(ctx, cfg, logger)
	if err != nil {
		fatal(err)
	}
	defer closeStore()

	api, err := client.New(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		fatal(err)
	}

	a := &app{
		out:     os.Stdout,
		api:     api,
		cart:    cart.New(snapshots, cart.WithLogger(logger)),
		session: newSessionFile(filepath.Join(cfg.Home, "session.json")),
		logger:  logger,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		closeStore()
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "shop:", err)
	os.Exit(1)
}

// openCartStore picks the snapshot medium from SHOP_CART_STORE.
func openCartStore(ctx context.Context, cfg config.ShopConfig, logger zerolog.Logger) (cart.SnapshotStore, func(), error) {
	switch cfg.CartStore {
	case "memory":
		return store.NewMemory(), func() {}, nil
	case "sqlite":
		s, err := store.OpenSQLite(ctx, filepath.Join(cfg.Home, "cart.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn().Err(err).Msg("close cart store")
			}
		}, nil
	case "file", "":
		return store.NewFile(filepath.Join(cfg.Home, "cart.json")), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown SHOP_CART_STORE %q (want file, sqlite or memory)", cfg.CartStore)
	}
}
