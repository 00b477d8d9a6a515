package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"itassets-dashboard/internal"
	"itassets-dashboard/internal/config"
	"itassets-dashboard/internal/logging"
)

func main() {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		logrus.Fatalf("Configuration error: %v", err)
	}

	log, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		logrus.Fatalf("Logging setup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := internal.NewServer(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("server setup failed")
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":         cfg.HTTPAddr,
			"environment":  cfg.Environment,
			"store":        cfg.StoreDriver,
			"jwt_issuer":   cfg.JWTIssuer,
			"jwt_audience": cfg.JWTAudience,
			"jwt_expiry":   cfg.JWTExpiry,
		}).Info("starting IT assets dashboard")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if err := srv.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("close server")
	}
}
