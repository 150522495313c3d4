package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/core/config"
	"storefront/internal/core/latency"
	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/storage"
	"storefront/internal/core/validation"
	addressadapter "storefront/internal/features/addresses/adapters"
	addresshandler "storefront/internal/features/addresses/handler"
	addressservice "storefront/internal/features/addresses/service"
	authadapter "storefront/internal/features/auth/adapters"
	authhandler "storefront/internal/features/auth/handler"
	authservice "storefront/internal/features/auth/service"
	cartadapter "storefront/internal/features/cart/adapters"
	carthandler "storefront/internal/features/cart/handler"
	cartservice "storefront/internal/features/cart/service"
	checkouthandler "storefront/internal/features/checkout/handler"
	checkoutservice "storefront/internal/features/checkout/service"
	orderadapter "storefront/internal/features/orders/adapters"
	orderhandler "storefront/internal/features/orders/handler"
	orderservice "storefront/internal/features/orders/service"
	paymentadapter "storefront/internal/features/payments/adapters"
	paymenthandler "storefront/internal/features/payments/handler"
	paymentservice "storefront/internal/features/payments/service"
	preferencehandler "storefront/internal/features/preferences/handler"
	preferenceservice "storefront/internal/features/preferences/service"
	trackingadapter "storefront/internal/features/tracking/adapters"
	trackinghandler "storefront/internal/features/tracking/handler"
	trackingservice "storefront/internal/features/tracking/service"

	"go.uber.org/zap"
)

// @title Storefront API
// @version 1.0
// @description Checkout, order placement and order tracking for the storefront app.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".", config.ScopeAPI)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("storage", cfg.Storage.Driver),
	)

	// Storage
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		l.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		l.Fatal("Storage health check failed", zap.Error(err))
	}
	l.Info("Storage connection verified")

	delay := latency.New(cfg.Simulation.LatencyRange())
	v := validation.New()

	// Mock backend services
	addressBook := addressservice.NewAddressBook(addressadapter.NewStoreAddressRepository(store), delay, v)
	paymentSvc := paymentservice.NewPaymentService(
		paymentadapter.NewStoreCardRepository(store),
		paymentadapter.NewStoreTransactionRepository(store),
		paymentservice.NewRandomApprover(cfg.Checkout.PaymentSuccessRate, 0),
		delay,
		v,
	)
	orderSvc := orderservice.NewOrderService(orderadapter.NewStoreOrderRepository(store), delay, v, cfg.Checkout.TaxRate)
	trackingSvc := trackingservice.NewTrackingService(trackingadapter.NewOrderServiceSource(orderSvc), delay, cfg.Tracking.StageDuration)
	authSvc := authservice.NewAuthService(
		authadapter.NewStoreUserRepository(store),
		authadapter.NewStoreDeviceState(store),
		delay,
		v,
		cfg.Auth.JWTSecret,
		cfg.Auth.TokenTTL,
	)

	// Client-side state
	cart := cartservice.NewStore(cartadapter.NewStoreCartRepository(store), v)
	themes := preferenceservice.NewThemeStore(store)
	currencies := preferenceservice.NewCurrencyStore(store)
	settings := preferenceservice.NewSettingsStore(store, v)

	loadCtx := context.Background()
	for name, load := range map[string]func(context.Context) error{
		"cart":     cart.Load,
		"theme":    themes.Load,
		"currency": currencies.Load,
		"settings": settings.Load,
	} {
		if err := load(loadCtx); err != nil {
			l.Warn("Failed to restore state, using defaults", zap.String("state", name), zap.Error(err))
		}
	}

	checkouts := checkoutservice.NewManager(orderSvc, paymentSvc, cart, addressBook, cfg.Checkout.TaxRate,
		checkoutservice.WithSessionTTL(cfg.Checkout.SessionTTL),
	)

	srv := server.New(cfg)
	srv.App.Use(authhandler.Optional(authSvc))

	// Register Routes
	addresshandler.NewAddressHandler(addressBook).Register(srv.App)
	paymenthandler.NewPaymentHandler(paymentSvc).Register(srv.App)
	orderhandler.NewOrderHandler(orderSvc).Register(srv.App)
	carthandler.NewCartHandler(cart).Register(srv.App)
	checkouthandler.NewCheckoutHandler(checkouts).Register(srv.App)
	trackinghandler.NewTrackingHandler(trackingSvc).Register(srv.App)
	preferencehandler.NewPreferencesHandler(themes, currencies, settings).Register(srv.App)
	authhandler.NewAuthHandler(authSvc).Register(srv.App)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down")
	if err := srv.Shutdown(); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
}
