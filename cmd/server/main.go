package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pbandrade/fiimonitor-backend/internal/adapter/httpapi"
	"github.com/pbandrade/fiimonitor-backend/internal/adapter/marketdata"
	"github.com/pbandrade/fiimonitor-backend/internal/config"
	"github.com/pbandrade/fiimonitor-backend/internal/domain"
	"github.com/pbandrade/fiimonitor-backend/internal/logger"
)

func main() {
	// 1. Configuration and logging
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	// 2. Market-data provider selection
	var provider domain.MarketDataProvider
	switch config.Cfg.MarketProvider {
	case "yahoo":
		yahoo, err := marketdata.NewYahooProvider(config.Cfg.YahooBaseURL)
		if err != nil {
			logger.L.Error("Failed to create Yahoo provider", "error", err)
			os.Exit(1)
		}
		provider = yahoo
	default:
		provider = marketdata.NewSimulatedProvider()
	}
	provider = marketdata.NewCachedProvider(provider, config.Cfg.QuoteCacheTTL)
	logger.L.Info("Market-data provider ready", "provider", config.Cfg.MarketProvider)

	// 3. Session store and API server
	sessions := httpapi.NewSessionStore(config.Cfg.SessionTTL)
	api := httpapi.NewServer(sessions, provider, config.Cfg.MaxUploadSizeBytes)

	server := &http.Server{
		Addr:         ":" + config.Cfg.Port,
		Handler:      api.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// 4. Serve until signalled
	go func() {
		logger.L.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.L.Info("Received signal, shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Graceful shutdown failed", "error", err)
	}
	logger.L.Info("HTTP server stopped")
}
