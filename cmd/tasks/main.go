// Package main initializes and starts the task-storage service.
package main

import (
	nethttp "net/http"

	"github.com/atinyakov/taskmesh/internal/config"
	"github.com/atinyakov/taskmesh/internal/db"
	"github.com/atinyakov/taskmesh/internal/logger"
	"github.com/atinyakov/taskmesh/internal/repository"
	"github.com/atinyakov/taskmesh/internal/server/handler/http"
	"github.com/atinyakov/taskmesh/internal/service"
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
	postgresDB, err := db.InitPostgres(options.DatabaseDSN, db.TasksSchema)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	taskRepo := repository.NewPostgresTaskRepository(postgresDB)
	taskService := service.NewTaskService(taskRepo)

	handler := &http.TaskHandler{Tasks: taskService}
	router := http.NewTaskRouter(handler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting task server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start task server", zap.Error(err))
	}
}
