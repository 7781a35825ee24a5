package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"jewelry-store/internal/client"
	"jewelry-store/internal/config"
	"jewelry-store/internal/repository"
	"jewelry-store/internal/server"
	"jewelry-store/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse config")
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	shippingFee, err := decimal.NewFromString(cfg.Checkout.ShippingFee)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid CHECKOUT_SHIPPING_FEE")
	}
	taxRate, err := decimal.NewFromString(cfg.Checkout.TaxRate)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid CHECKOUT_TAX_RATE")
	}
	checkoutCfg := service.CheckoutConfig{
		ShippingFee: shippingFee,
		TaxRate:     taxRate,
		Currency:    cfg.Checkout.Currency,
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)

	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	cartRepo := repository.NewCartRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	authService := service.NewAuthService(cfg.JWTSecret, userRepo)
	cartService := service.NewCartService(cartRepo, variantRepo)
	couponService := service.NewCouponService(checkoutCfg, couponRepo, orderRepo)
	checkoutService := service.NewCheckoutService(
		db, checkoutCfg,
		cartRepo, addressRepo, couponRepo, variantRepo, orderRepo, paymentRepo,
	)
	orderService := service.NewOrderService(db, orderRepo, paymentRepo, variantRepo)
	paymentService := service.NewPaymentService(db, paymentRepo, orderRepo, variantRepo)

	srv := server.NewServer(
		cfg.JWTSecret,
		authService,
		cartService,
		checkoutService,
		couponService,
		orderService,
		paymentService,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, shutting down")

	if err := srv.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}
