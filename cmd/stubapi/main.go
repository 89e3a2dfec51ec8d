package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"redstore/internal/config"
	"redstore/internal/stub"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[stubapi] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	gin.SetMode(gin.ReleaseMode)

	store := stub.NewStore()
	if err := store.Seed(); err != nil {
		logger.Fatalf("seed store: %v", err)
	}

	srv := stub.New(cfg.HTTPAddr, logger, store)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting stub backend on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
