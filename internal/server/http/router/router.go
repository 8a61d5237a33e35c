package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/telemart/storefront/internal/config"
	"github.com/telemart/storefront/internal/server/http/handlers"
	"github.com/telemart/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, verifier middleware.IdentityVerifier, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	loyaltyHandler := handlers.NewLoyaltyHandler(facade)
	discountHandler := handlers.NewDiscountHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)

	api := engine.Group("/api")
	api.Use(middleware.TelegramAuth(verifier, logger))

	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/loyalty/status", loyaltyHandler.Status)
	api.POST("/discounts/validate", discountHandler.Validate)
	api.POST("/telegram/webhook", webhookHandler.Receive)

	user := api.Group("")
	user.Use(middleware.RequireTelegramUser())
	user.POST("/orders", orderHandler.Create)
	user.GET("/orders", orderHandler.List)
	user.GET("/orders/:id", orderHandler.Get)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(cfg.AdminSecret))
	admin.GET("/h2h/verifications", adminHandler.Verifications)
	admin.GET("/h2h/orders", adminHandler.Orders)
	admin.PATCH("/h2h/orders/:id/status", adminHandler.UpdateStatus)
	admin.PATCH("/h2h/orders/:id/verification", adminHandler.UpdateVerification)
	admin.PUT("/discounts/:code", adminHandler.UpsertDiscount)

	return engine
}
