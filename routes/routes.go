package routes

import (
	"time"

	"parkrefund/config"
	"parkrefund/handlers"
	"parkrefund/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, webhook *handlers.WebhookHandler, refund *handlers.RefundHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Webhook-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)

	// Webhook ingress: signature-verified, rate-limited.
	hooks := r.Group("/webhooks")
	hooks.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	hooks.Use(middleware.WebhookSignatureMiddleware(config.AppConfig.WebhookSecret))
	{
		hooks.POST("/tickets", webhook.HandleTicketEvent)
	}

	// Operational API for support engineers and batch jobs.
	api := r.Group("/api/refunds")
	api.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	{
		api.POST("/decide", refund.DecideRefund)
		api.POST("/verify", refund.VerifyBooking)
		api.POST("/duplicates", refund.AnalyzeDuplicates)
		api.GET("/records", refund.ListRecentRecords)
		api.GET("/records/:ticketID", refund.GetTicketRecords)
	}
}
