package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/chorezilla/internal/config"
	"github.com/dukerupert/chorezilla/internal/database"
	"github.com/dukerupert/chorezilla/internal/logging"
	"github.com/dukerupert/chorezilla/internal/media"
	"github.com/dukerupert/chorezilla/internal/push"
	"github.com/dukerupert/chorezilla/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	vapidPublic, vapidPrivate := cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey
	if vapidPublic == "" || vapidPrivate == "" {
		// Ephemeral keys work for development but invalidate existing
		// browser subscriptions on every restart.
		vapidPublic, vapidPrivate, err = push.GenerateVAPIDKeys()
		if err != nil {
			log.Fatalf("failed to generate VAPID keys: %v", err)
		}
		logger.Warn("VAPID keys not configured, generated ephemeral keys",
			"hint", "set CHOREZILLA_VAPID_PUBLIC_KEY and CHOREZILLA_VAPID_PRIVATE_KEY to keep subscriptions across restarts")
	}
	pushSvc := push.NewService(vapidPublic, vapidPrivate)

	mediaSvc := media.NewService(media.Config{
		Endpoint:      cfg.Media.Endpoint,
		Bucket:        cfg.Media.Bucket,
		Region:        cfg.Media.Region,
		AccessKey:     cfg.Media.AccessKey,
		SecretKey:     cfg.Media.SecretKey,
		PublicBaseURL: cfg.Media.PublicBaseURL,
	})
	if !mediaSvc.Enabled() {
		logger.Info("media storage not configured, proof photo uploads disabled")
	}

	srv := server.New(db, pushSvc, mediaSvc, []byte(cfg.TokenSecret), logger)

	// Periodic cleanup of expired rate limit entries
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Chorezilla running at http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
