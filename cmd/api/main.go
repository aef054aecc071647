package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"giftcard-store/internal/config"
	"giftcard-store/internal/db"
	"giftcard-store/internal/events"
	"giftcard-store/internal/httpserver"
	"giftcard-store/internal/logging"
	categoryrepo "giftcard-store/internal/repository/category"
	customerrepo "giftcard-store/internal/repository/customer"
	paymentrepo "giftcard-store/internal/repository/payment"
	productrepo "giftcard-store/internal/repository/product"
	tokenrepo "giftcard-store/internal/repository/token"
	categorysvc "giftcard-store/internal/service/category"
	customersvc "giftcard-store/internal/service/customer"
	paymentsvc "giftcard-store/internal/service/payment"
	productsvc "giftcard-store/internal/service/product"

	"github.com/rs/zerolog"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(logging.Options{Service: "api", Level: cfg.LogLevel})

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("api exited")
		os.Exit(1)
	}
}

func run(cfg config.Config, logger zerolog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer dbpool.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitURL != "" {
		rabbit, err := events.DialRabbit(cfg.RabbitURL, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		publisher = rabbit
	} else {
		logger.Info().Msg("RABBITMQ_URL not set, order events disabled")
	}
	defer publisher.Close()

	productService := productsvc.New(productrepo.NewPostgres(dbpool, logger), productsvc.WithCacheTTL(cfg.ProductCacheTTL))
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool))
	customerService := customersvc.New(
		customerrepo.NewPostgres(dbpool, logger),
		tokenrepo.NewPostgres(dbpool),
		customersvc.Options{Secret: cfg.JWTSecret, AccessTTL: cfg.AccessTokenTTL},
	)
	paymentService := paymentsvc.New(paymentrepo.NewPostgres(dbpool, logger), productService, publisher, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categoryService,
		CustomerSvc: customerService,
		PaymentSvc:  paymentService,
		CORSOrigins: cfg.CORSOrigins,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case runErr = <-serverErr:
		logger.Error().Err(runErr).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
	return runErr
}
