// Package main initializes and starts the user-identity service.
package main

import (
	nethttp "net/http"

	"github.com/atinyakov/taskmesh/internal/config"
	"github.com/atinyakov/taskmesh/internal/db"
	"github.com/atinyakov/taskmesh/internal/logger"
	"github.com/atinyakov/taskmesh/internal/repository"
	"github.com/atinyakov/taskmesh/internal/server/handler/http"
	"github.com/atinyakov/taskmesh/internal/service"
	"github.com/atinyakov/taskmesh/internal/token"
	"go.uber.org/zap"
)

func main() {
	options := config.Parse()

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN, db.UsersSchema)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	userRepo := repository.NewPostgresUserRepository(postgresDB)
	userService := service.NewUserService(userRepo)

	tokens, err := token.New(options.JWTSecret, options.JWTAlgorithm, options.TokenTTL, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot init token manager", zap.Error(err))
	}

	handler := &http.IdentityHandler{Users: userService, Tokens: tokens}
	router := http.NewIdentityRouter(handler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting identity server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start identity server", zap.Error(err))
	}
}
