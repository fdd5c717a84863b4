package main

import (
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/handler"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/internal/middleware"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/config"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/database"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/jwtutil"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/pkg/logger"
	"github.com/ajokkuechajokdeng/JUNUB-REAL-ESTATE/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.Initialize(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting real estate service...", cfg.LogConfig()...)

	// Initialize database
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestID)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// API routes
	handler.RegisterRoutes(e)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
