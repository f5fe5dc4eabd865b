package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/meridianfi/rebalance/config"
	_ "github.com/meridianfi/rebalance/docs"
	"github.com/meridianfi/rebalance/internal/cache"
	"github.com/meridianfi/rebalance/internal/database"
	"github.com/meridianfi/rebalance/internal/handlers"
	"github.com/meridianfi/rebalance/internal/middleware"
	"github.com/meridianfi/rebalance/internal/repository"
	"github.com/meridianfi/rebalance/internal/services"
)

// @title Rebalance API
// @version 1.0
// @description Multi-account investment portfolio reporting and rebalancing.
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection
	db, err := database.New(ctx, cfg.PGURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize caches
	memCache := cache.NewMemoryCache(5 * time.Minute)

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db.Pool)
	targetRepo := repository.NewTargetRepository(db.Pool)

	// Initialize services
	accountSvc := services.NewAccountService(accountRepo, memCache)
	targetSvc := services.NewTargetService(targetRepo)
	rebalanceSvc := services.NewRebalanceService(accountRepo, targetSvc, memCache)

	// Seed accounts and a default target from description files if configured
	if cfg.SeedAccounts != "" {
		n, err := accountSvc.SeedFromDescriptor(ctx, cfg.SeedUserID, cfg.SeedAccounts)
		if err != nil {
			log.Fatalf("Failed to seed accounts from %s: %v", cfg.SeedAccounts, err)
		}
		log.Infof("Seeded %d accounts for user %d", n, cfg.SeedUserID)
	}
	if cfg.SeedTarget != "" {
		if err := targetSvc.SeedFromFile(ctx, cfg.SeedUserID, "default", cfg.SeedTarget); err != nil {
			log.Fatalf("Failed to seed target from %s: %v", cfg.SeedTarget, err)
		}
		log.Infof("Seeded default target for user %d", cfg.SeedUserID)
	}

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountSvc)
	targetHandler := handlers.NewTargetHandler(targetSvc)
	rebalanceHandler := handlers.NewRebalanceHandler(rebalanceSvc)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.ValidateUser())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Account routes
	accounts := router.Group("/accounts", middleware.RequireAuth())
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.GET("/:id", accountHandler.Get)
	accounts.DELETE("/:id", accountHandler.Delete)
	accounts.PUT("/:id/holdings", accountHandler.ReplaceHoldings)
	accounts.POST("/:id/positions", accountHandler.ImportPositions)

	// Target allocation routes
	targets := router.Group("/targets", middleware.RequireAuth())
	targets.GET("", targetHandler.List)
	targets.PUT("/:name", targetHandler.Upsert)
	targets.GET("/:name", targetHandler.Get)
	targets.DELETE("/:name", targetHandler.Delete)

	// Portfolio routes
	portfolio := router.Group("/portfolio", middleware.RequireAuth())
	portfolio.GET("", rebalanceHandler.GetPortfolio)
	portfolio.GET("/allocation", rebalanceHandler.AllocationByClass)
	portfolio.GET("/allocation/institution", rebalanceHandler.AllocationByInstitution)
	portfolio.GET("/allocation/percentage", rebalanceHandler.PercentageAllocation)
	portfolio.GET("/target-diff", rebalanceHandler.DiffFromTarget)
	portfolio.POST("/rebalance", rebalanceHandler.Rebalance)
	portfolio.POST("/transactions", rebalanceHandler.Execute)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Give outstanding requests 5 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
