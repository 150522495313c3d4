package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/core/config"
	"storefront/internal/core/httpclient"
	"storefront/internal/core/logger"
	"storefront/internal/features/tracking/adapters"
	"storefront/internal/features/tracking/service"

	"go.uber.org/zap"
)

// track follows an order through the API and prints every view change as a JSON line.
// It exits once the order is delivered or on SIGINT/SIGTERM.
func main() {
	if len(os.Args) < 2 {
		fmt.Println(`{"error": "Please provide an order id as an argument"}`)
		os.Exit(2)
	}
	orderID := os.Args[1]

	cfg, err := config.Load(".", config.ScopeTrack)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	provider := adapters.NewHTTPProvider(cfg.APIBaseURL, httpclient.NewClient(15*time.Second))

	delivered := make(chan struct{}, 1)
	enc := json.NewEncoder(os.Stdout)

	poller := service.NewPoller(provider, orderID, func(v service.View) {
		if err := enc.Encode(v); err != nil {
			logger.Get().Warn("Failed to print view", zap.Error(err))
		}
		if v.State == service.ViewReady && !v.Refreshing && v.Tracking.Delivered() {
			select {
			case delivered <- struct{}{}:
			default:
			}
		}
	}, service.WithInterval(cfg.Tracking.PollInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := poller.Start(ctx)
	select {
	case <-delivered:
	case <-ctx.Done():
	}
	h.Stop()
	<-h.Done()
}
