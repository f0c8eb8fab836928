package main

//
//  @title           FundLens API
//  @version         1.0
//  @description     LLM-assisted chatbot for analyzing fund data from CSV files.
//  @termsOfService  https://github.com/fundlens/fundlens
//  @contact.name    API Support
//  @contact.url     https://github.com/fundlens/fundlens
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:7001
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        chat
//  @tag.description Question answering over the loaded CSV datasets
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundlens/fundlens/config"
	_ "github.com/fundlens/fundlens/docs" // swagger docs
	"github.com/fundlens/fundlens/internal/app"
	"github.com/fundlens/fundlens/internal/dataset"
	"github.com/fundlens/fundlens/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Read/write timeouts are generous because a single chat request makes two
// blocking upstream LLM calls.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up
// resources when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the fundlens application.
//
// Modes (selected via --mode flag):
//   - serve:   Starts the chat API over the loaded CSV datasets.
//   - inspect: Loads the CSV folder, prints the discovered schema, exits.
//
// Flags:
//   - --mode: Execution mode ("serve" or "inspect"). Default: "serve".
//   - --dir:  Directory containing the CSV files (inspect mode). Defaults to DATA_DIR.
//   - --port: Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "serve", "Mode: serve or inspect")
	dir := flag.String("dir", config.AppConfig.Data.Dir, "Directory with CSV files")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for serve mode")
	flag.Parse()

	switch *mode {
	case "serve":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp(ctx)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "inspect":
		// Inspection mode: load the datasets and report their schemas
		store, err := dataset.Load(ctx, *dir)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("dataset load failed")
		}
		for file, columns := range store.Columns() {
			logger.L().Info().Str("file", file).Strs("columns", columns).Msg("table schema")
		}
		if !store.Loaded() {
			logger.L().Warn().Str("dir", *dir).Msg("no CSV files found")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
