package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"client-registry/internal/cache"
	"client-registry/internal/config"
	"client-registry/internal/database"
	"client-registry/internal/server"
	"client-registry/internal/service"
	"client-registry/internal/storage"

	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.ConfigureLogging(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = redisClient.Close()
	}()

	blobs, err := storage.FromConfig(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	audit := database.NewAuditStore(db)
	clients := service.NewClientService(
		database.NewClientStore(db),
		blobs,
		cache.NewRedisCache(redisClient, cfg.CacheTTL),
		audit,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           server.NewRouter(server.Deps{Clients: clients, Audit: audit}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		log.Printf("starting server on %s", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}
