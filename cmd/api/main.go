// Command api serves the Learnify engine over HTTP.
//
// @title                      Learnify Engine API
// @version                    1.0
// @description                Habits, tasks, notes, planner, focus timer and study groups.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/comitanigiacomo/learnify-engine/docs"
	"github.com/comitanigiacomo/learnify-engine/internal/config"
	"github.com/comitanigiacomo/learnify-engine/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	path := os.Getenv("LEARNIFY_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path, ".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return 1
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	a.worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("learnify engine listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exit := 0
	select {
	case <-ctx.Done():
		log.Info("stop signal received, shutting down")
	case err := <-serveErr:
		log.Error("server error", zap.Error(err))
		exit = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownGrace))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
		exit = 1
	}

	// the worker stops before the stores it writes to are closed
	stopWorker()
	a.worker.Wait()
	a.close(shutdownCtx, log)

	log.Info("server stopped")
	return exit
}
