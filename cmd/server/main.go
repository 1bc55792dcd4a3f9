// cmd/server/main.go
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

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shopwatch/shopwatch-backend/internal/config"
	"github.com/shopwatch/shopwatch-backend/internal/database"
	"github.com/shopwatch/shopwatch-backend/internal/router"
	"github.com/shopwatch/shopwatch-backend/internal/services"
	"github.com/shopwatch/shopwatch-backend/internal/slack"
	"github.com/shopwatch/shopwatch-backend/internal/store"
	"github.com/shopwatch/shopwatch-backend/internal/sweeper"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set Gin mode and structured logging
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire stores and services
	pg := store.NewPostgres(db)
	classifier := services.NewClassifierService(pg)
	resolver := services.NewResolverService(pg, pg)
	tracking := services.NewTrackingService(pg)
	search := services.NewSearchService(pg)

	slackClient := slack.New(cfg.Slack)
	delivery := services.NewDeliveryService(resolver, classifier, pg, slackClient, cfg.Slack)
	interactions := slack.NewInteractions(slackClient, tracking, search)

	// Socket Mode transport
	go func() {
		if err := slackClient.Run(ctx, interactions); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Fatal("Socket Mode transport failed")
		}
	}()

	// Redelivery sweeper
	sweep := sweeper.New(pg, delivery, cfg.Sweeper)
	if err := sweep.Start(ctx); err != nil {
		log.Fatal("Failed to start redelivery sweeper:", err)
	}
	defer sweep.Stop()

	// HTTP surface
	r := router.Initialize(delivery, slackClient.Connected)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logrus.Info("Server exited")
}
