package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"inventory-catalog-service/internal/api"
	"inventory-catalog-service/internal/catalog"
	"inventory-catalog-service/internal/config"
	"inventory-catalog-service/internal/openfoodfacts"
	"inventory-catalog-service/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	setupLogger(cfg)
	log.WithFields(log.Fields{"env": cfg.AppEnv, "level": cfg.LogLevel}).Info("starting inventory catalog service")

	productStore := store.NewMemoryStore(store.DefaultSeed()...)
	lookupClient := openfoodfacts.NewClient(cfg.Lookup)
	service := catalog.NewService(productStore, lookupClient)
	handler := api.NewHTTPHandler(service)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	handler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.TimeoutRead,
		WriteTimeout: cfg.HTTPServer.TimeoutWrite,
		IdleTimeout:  cfg.HTTPServer.TimeoutIdle,
	}

	go func() {
		log.WithField("port", cfg.HTTPServer.Port).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	waitForShutdown(httpServer)
}

func setupLogger(cfg *config.Config) {
	if cfg.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, defaulting to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func waitForShutdown(httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.WithField("signal", sig.String()).Info("starting graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server graceful shutdown failed")
		return
	}
	log.Info("HTTP server gracefully shut down")
}
