package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"

	"github.com/GOATNetwork/tvl-summary/internal/api"
	"github.com/GOATNetwork/tvl-summary/internal/config"
	"github.com/GOATNetwork/tvl-summary/internal/explorer"
	"github.com/GOATNetwork/tvl-summary/internal/metrics"
	"github.com/GOATNetwork/tvl-summary/internal/pricefeed"
	"github.com/GOATNetwork/tvl-summary/internal/registry"
	"github.com/GOATNetwork/tvl-summary/internal/subgraph"
	"github.com/GOATNetwork/tvl-summary/internal/tvl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	slog.SetDefault(slog.New(slogzap.Option{Level: slog.LevelInfo, Logger: zapLogger}.NewZapHandler()))

	cfg := config.Load()

	reg, err := registry.Load(cfg.TokensFile)
	if err != nil {
		log.Fatalf("Failed to load token registry: %v", err)
	}

	explorerClient := explorer.NewClient(cfg.ExplorerURL, cfg.HTTPClientTimeout)
	priceClient := pricefeed.NewClient(cfg.PriceAPIURL, cfg.HTTPClientTimeout)
	subgraphClient := subgraph.NewClient(cfg.GraphAPIURL, cfg.HTTPClientTimeout)

	svc := tvl.NewService(reg, explorerClient, priceClient, subgraphClient, cfg.CacheTTL)
	svc.InvalidatePrices()

	metrics.MustRegister()

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(svc))
	srv := api.NewServer(cfg.HTTPPort, router)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
