package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ansh200516/form/config"
	"github.com/ansh200516/form/internal/routes"
	"github.com/ansh200516/form/models"
)

func main() {
	config.Load()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.AssessmentStrategy{},
		&models.Course{},
		&models.CLO{},
		&models.CLOToPLO{},
		&models.PlanEntry{},
		&models.Assessment{},
		&models.TeachingMethodology{},
	); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	r := gin.Default()
	routes.SetupRoutes(r)

	port := config.Port()
	slog.Info("Starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
