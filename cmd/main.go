package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"betting-platform/internal/auth"
	"betting-platform/internal/config"
	"betting-platform/internal/database"
	"betting-platform/internal/handlers"
	"betting-platform/internal/jobs"
	"betting-platform/internal/repository"
	"betting-platform/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repository and services
	repo := repository.NewRepository(database.GetDB())
	valuationService := services.NewValuationService(repo)
	wagerService := services.NewWagerService(repo, valuationService)
	settlementService := services.NewSettlementService(repo, valuationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(repo)
	marketHandler := handlers.NewMarketHandler(repo)
	wagerHandler := handlers.NewWagerHandler(wagerService)
	adminHandler := handlers.NewAdminHandler(repo, settlementService)

	// Start the market auto-close scheduler
	autoCloser := jobs.NewMarketAutoCloser(repo, cfg.Scheduler.CloseInterval)
	autoCloser.Start()

	// Set up Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authentication routes (public)
	router.POST("/auth/login", authHandler.Login)

	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public market routes
	router.GET("/api/markets", marketHandler.GetMarkets)
	router.GET("/api/markets/:id", marketHandler.GetMarketByID)
	router.GET("/api/matches", marketHandler.GetMatches)
	router.GET("/api/matches/:id", marketHandler.GetMatchByID)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.POST("/wagers", wagerHandler.PlaceWager)
		api.GET("/wagers/active", wagerHandler.GetActiveWagers)
		api.GET("/wagers/history", wagerHandler.GetWagerHistory)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
	{
		admin.POST("/markets", adminHandler.CreateMarket)
		admin.POST("/markets/:id/result", adminHandler.ResultMarket)
		admin.POST("/matches", adminHandler.CreateMatch)
		admin.POST("/matches/:id/result", adminHandler.ResultMatch)
		admin.POST("/wagers/:id/settle", adminHandler.SettleWager)
		admin.POST("/wagers/:id/cancel", adminHandler.CancelWager)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown: stop the scheduler (lets an in-flight sweep
	// finish), then drain the HTTP server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	autoCloser.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
