package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/notewise/notewise-be/internal/api"
	"github.com/notewise/notewise-be/internal/auth"
	"github.com/notewise/notewise-be/internal/config"
	"github.com/notewise/notewise-be/internal/database"
	"github.com/notewise/notewise-be/internal/logger"
	"github.com/notewise/notewise-be/internal/monitoring"
	"github.com/notewise/notewise-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db)
	noteService := services.NewNoteService(db)

	// Set up and run the background resource monitor
	monitor := monitoring.NewMonitor()
	if err := monitor.Run(cfg.StatsInterval); err != nil {
		log.Fatal().Err(err).Msg("Failed to start resource monitor")
	}

	// Set up router
	router := api.NewRouter(tokens, userService, noteService, monitor, cfg.AllowedOrigin)

	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	monitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
