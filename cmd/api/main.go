package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"underwriting/pkg/api/scenario"
	"underwriting/pkg/core/config"
	"underwriting/pkg/core/logging"
	"underwriting/pkg/core/projection"
	"underwriting/pkg/core/store"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the YAML config file")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info", "text").Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.OpenScenarioStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatalf("Failed to open scenario storage: %v", err)
	}
	defer closeStore()

	runner, err := projection.NewRunnerFromConfig(cfg.Analysis)
	if err != nil {
		logger.Fatalf("Invalid analysis config: %v", err)
	}

	r := mux.NewRouter()
	scenario.NewHandler(st, runner, logger).Register(r)

	server := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.WithField("backend", cfg.Storage.Backend).Infof("Starting server on %s", cfg.API.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
