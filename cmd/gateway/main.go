// Package main initializes and starts the edge gateway, setting up
// configuration, logging, token verification, forwarding, and
// dependency health aggregation.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"github.com/atinyakov/taskmesh/internal/config"
	"github.com/atinyakov/taskmesh/internal/gateway"
	"github.com/atinyakov/taskmesh/internal/logger"
	"github.com/atinyakov/taskmesh/internal/token"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Shared-secret token verification at the edge.
	tokens, err := token.New(options.JWTSecret, options.JWTAlgorithm, options.TokenTTL, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init token manager", zap.Error(err))
	}

	// Forwarding and health aggregation over a shared connection pool.
	forwarder := gateway.NewForwarder(zapLogger)
	health := gateway.NewHealthAggregator(forwarder, []gateway.Dependency{
		{Name: "user-service", BaseURL: options.UserServiceURL},
		{Name: "task-service", BaseURL: options.TaskServiceURL},
	})

	handler := &gateway.Handler{
		Tokens:         tokens,
		Client:         forwarder,
		Health:         health,
		UserServiceURL: options.UserServiceURL,
		TaskServiceURL: options.TaskServiceURL,
		Log:            zapLogger,
	}

	// Build the router with middleware and routes.
	router := gateway.NewRouter(handler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting gateway server",
		zap.String("addr", options.Port),
		zap.String("user_service", options.UserServiceURL),
		zap.String("task_service", options.TaskServiceURL),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start gateway server", zap.Error(err))
	}
}
