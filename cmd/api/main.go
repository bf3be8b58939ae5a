package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/commission"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/pricing"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/purchase"
	userUseCase "github.com/ditlabs/tokensale-crm/internal/domain/usecase/user"
	"github.com/ditlabs/tokensale-crm/internal/domain/usecase/withdrawal"

	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/handler"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/routes"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/auth"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/database"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/jobs"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/logger"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/mailer"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/report"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/repository"
	timeProvider "github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/time"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer appLogger.Flush()

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(cfg.Database.Adapter(cfg.Logger.Level), appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.MigrationManager().RunMigrations(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	db := dbManager.DB()
	userRepo := repository.NewUserRepository(db, tp, appLogger)
	transactionRepo := repository.NewTransactionRepository(db, appLogger)
	commissionRepo := repository.NewCommissionRepository(db, appLogger)
	settingsRepo := repository.NewSettingsRepository(db, appLogger)
	notificationRepo := repository.NewNotificationRepository(db, appLogger)
	priceRepo := repository.NewTokenPriceRepository(db, appLogger)
	retryRepo := repository.NewSettlementRetryRepository(db, appLogger)

	// Unit of work (transaction manager)
	uow := dbManager.CreateUnitOfWork()

	// Outbound adapters
	brevoMailer := mailer.NewBrevoMailer(cfg.Mailer.Adapter(), appLogger)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, tp)

	// Initialize use cases
	pricingService := pricing.NewService(priceRepo, tp, appLogger)
	engine := commission.NewEngine(uow, retryRepo, tp, appLogger)
	retryProcessor := commission.NewRetryProcessor(engine, retryRepo, transactionRepo, tp, appLogger)
	commissionAdmin := commission.NewAdmin(commissionRepo, settingsRepo, tp, appLogger)
	purchaseService := purchase.NewService(uow, userRepo, pricingService, engine, brevoMailer, tp, appLogger)
	userService := userUseCase.NewService(userRepo, transactionRepo, commissionRepo, notificationRepo, hasher, tp, appLogger)
	withdrawalService := withdrawal.NewService(uow, userRepo, pricingService, brevoMailer, tp, appLogger)

	// Report exporter
	exporter := report.NewXlsxExporter(transactionRepo, commissionRepo, appLogger)

	// Background jobs
	scheduler := jobs.NewScheduler(retryProcessor, tp, appLogger, cfg.Jobs.SettlementRetrySchedule)
	if err := scheduler.Start(); err != nil {
		appLogger.Error("Failed to start job scheduler", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize API handlers
	authHandler := handler.NewAuthHandler(userService, jwtManager)
	userHandler := handler.NewUserHandler(userService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService, userService, pricingService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	adminHandler := handler.NewAdminHandler(purchaseService, pricingService, commissionAdmin, withdrawalService, exporter)

	// Initialize Gin router
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, jwtManager, authHandler, userHandler, purchaseHandler, withdrawalHandler, adminHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop the job scheduler before closing the database
	scheduler.Stop()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}
