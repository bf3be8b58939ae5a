package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/ditlabs/tokensale-crm/internal/domain/port/core"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/handler"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/api/middleware"
	"github.com/ditlabs/tokensale-crm/internal/infrastructure/adapter/auth"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	jwtManager *auth.JWTManager,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	purchaseHandler *handler.PurchaseHandler,
	withdrawalHandler *handler.WithdrawalHandler,
	adminHandler *handler.AdminHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated user routes
	authed := api.Group("")
	authed.Use(middleware.Authenticate(jwtManager))
	{
		userRoutes := authed.Group("/user")
		{
			userRoutes.GET("/dashboard", userHandler.Dashboard)
			userRoutes.GET("/referrals", userHandler.Referrals)
			userRoutes.GET("/notifications", userHandler.Notifications)
			userRoutes.POST("/notifications/:id/read", userHandler.MarkNotificationRead)
		}

		tokenRoutes := authed.Group("/tokens")
		{
			tokenRoutes.GET("/price", purchaseHandler.CurrentPrice)
			tokenRoutes.POST("/purchase", purchaseHandler.RequestPurchase)
			tokenRoutes.POST("/purchase-from-balance", purchaseHandler.PurchaseFromBalance)
			tokenRoutes.GET("/transactions", purchaseHandler.Transactions)
		}

		withdrawalRoutes := authed.Group("/withdrawals")
		{
			withdrawalRoutes.POST("", withdrawalHandler.Request)
			withdrawalRoutes.GET("", withdrawalHandler.List)
		}
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.Authenticate(jwtManager), middleware.RequireAdmin())
	{
		admin.POST("/confirm-payment", adminHandler.ConfirmPayment)
		admin.POST("/manual-deposit", adminHandler.ManualDeposit)
		admin.GET("/token-price", adminHandler.GetTokenPrice)
		admin.POST("/token-price", adminHandler.SetTokenPrice)
		admin.GET("/commissions", adminHandler.ListCommissions)
		admin.POST("/commissions/:id/mark-paid", adminHandler.MarkCommissionPaid)
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.UpdateSettings)
		admin.GET("/withdrawals", adminHandler.ListPendingWithdrawals)
		admin.POST("/withdrawals/process", adminHandler.ProcessWithdrawal)
		admin.GET("/reports/transactions", adminHandler.ExportTransactions)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
