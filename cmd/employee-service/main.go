package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/emsvc/employee-service/internal/employee/events"
	"github.com/emsvc/employee-service/internal/employee/handler"
	"github.com/emsvc/employee-service/internal/employee/repository"
	"github.com/emsvc/employee-service/internal/employee/service"
	"github.com/emsvc/employee-service/internal/employee/validation"
	"github.com/emsvc/employee-service/pkg/config"
	"github.com/emsvc/employee-service/pkg/database"
	"github.com/emsvc/employee-service/pkg/logger"
	"github.com/emsvc/employee-service/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(config.ServiceName, cfg.Server.Environment).SetLevel(cfg.Log.Level)
	log.Info().Str("environment", cfg.Server.Environment).Msg("starting Employee Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	checks := map[string]HealthFunc{
		"database": db.Health,
	}

	// Domain events are optional; without a broker they are dropped
	var publisher service.EventPublisher = events.NoopPublisher{}
	if cfg.Messaging.Enabled {
		rmq, err := messaging.New(&cfg.Messaging, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		eventPublisher, err := events.NewEmployeeEventPublisher(rmq, &cfg.Messaging, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = eventPublisher
		checks["rabbitmq"] = func(context.Context) map[string]string { return rmq.Health() }
	} else {
		log.Info().Msg("messaging disabled, domain events will not be published")
	}

	// Wire the employee module
	employeeRepo := repository.NewEmployeeRepository(db)
	employeeService := service.NewEmployeeService(
		employeeRepo, employeeRepo, employeeRepo,
		validation.New(),
		publisher,
		log,
	)
	employeeHandler := handler.NewEmployeeHandler(employeeService, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      newRouter(cfg, log, employeeHandler, checks),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
