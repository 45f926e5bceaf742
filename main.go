package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/marine-classifieds/config"
	"github.com/yourusername/marine-classifieds/handlers"
	"github.com/yourusername/marine-classifieds/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "marine-classifieds-api",
		})
	})

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	listingHandler := handlers.NewListingHandler(db, cfg)
	paymentHandler := handlers.NewPaymentHandler(db, cfg)
	messageHandler := handlers.NewMessageHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

	// API routes
	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/verify-email", authHandler.VerifyEmail)
			auth.GET("/me", middleware.JwtAuthMiddleware(cfg), authHandler.Me)
		}

		listings := api.Group("/listings")
		{
			listings.GET("", listingHandler.ListListings)
			listings.GET("/:id", listingHandler.GetListing)

			authed := listings.Group("", middleware.JwtAuthMiddleware(cfg))
			authed.POST("", listingHandler.CreateListing)
			authed.PUT("/:id", listingHandler.UpdateListing)
			authed.PUT("/:id/status", listingHandler.UpdateListingStatus)
			authed.DELETE("/:id", listingHandler.DeleteListing)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:slug", categoryHandler.GetCategoryBySlug)

			admin := categories.Group("", middleware.JwtAuthMiddleware(cfg), middleware.RequireAdmin())
			admin.POST("", categoryHandler.CreateCategory)
			admin.PUT("/:id", categoryHandler.UpdateCategory)
			admin.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		payments := api.Group("/payments", middleware.JwtAuthMiddleware(cfg))
		{
			payments.POST("/checkout", paymentHandler.CreateCheckout)
			payments.POST("/:id/complete", paymentHandler.CompletePayment)
			payments.POST("/:id/fail", paymentHandler.FailPayment)
			payments.GET("/:id", paymentHandler.GetPayment)
			payments.GET("", paymentHandler.ListPayments)
		}

		messages := api.Group("/messages", middleware.JwtAuthMiddleware(cfg))
		{
			messages.POST("", messageHandler.SendMessage)
			messages.GET("", messageHandler.ListMessages)
			messages.GET("/:id", messageHandler.GetMessage)
			messages.DELETE("/:id", messageHandler.DeleteMessage)
		}

		users := api.Group("/users", middleware.JwtAuthMiddleware(cfg))
		{
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.DELETE("/profile", userHandler.DeleteAccount)
		}

		admin := api.Group("/admin", middleware.JwtAuthMiddleware(cfg), middleware.RequireAdmin())
		{
			admin.GET("/analytics", adminHandler.GetAnalytics)
			admin.GET("/revenue", adminHandler.ListRevenue)
			admin.GET("/listings/pending", adminHandler.GetPendingListings)
			admin.PUT("/listings/:id/moderate", adminHandler.ModerateListing)
			admin.GET("/users", userHandler.ListUsers)
		}
	}

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Marine Classifieds API server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
