package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaesolAhn/KB-infodigest/internal/clients/naver"
	"github.com/SaesolAhn/KB-infodigest/internal/common"
	"github.com/SaesolAhn/KB-infodigest/internal/server"
	"github.com/SaesolAhn/KB-infodigest/internal/services/stock"
)

func main() {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(os.Getenv("KBID_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewLogger(config.Logging.Level)
	common.PrintBanner(config, logger)

	client := naver.NewClient(
		naver.WithMobileBaseURL(config.Clients.Naver.MobileBaseURL),
		naver.WithWorldBaseURL(config.Clients.Naver.WorldBaseURL),
		naver.WithRateLimit(config.Clients.Naver.RateLimit),
		naver.WithTimeout(config.Clients.Naver.GetTimeout()),
		naver.WithLogger(logger),
	)

	stockService := stock.NewService(client, logger)
	apiServer := server.NewServer(stockService, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      apiServer.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", config.Server.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://localhost:%d", config.Server.Port)).
		Msg("Server ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	common.PrintShutdownBanner(logger)
}
