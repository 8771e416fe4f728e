package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigflow-backend/internal/config"
	"github.com/ignatzorin/gigflow-backend/internal/http/middleware"
	"github.com/ignatzorin/gigflow-backend/internal/interface/http/handler"
	"github.com/ignatzorin/gigflow-backend/internal/service"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Gig          *handler.GigHandler
	Bid          *handler.BidHandler
	Notification *handler.NotificationHandler
	WS           *handler.WSHandler
	Health       *handler.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager, log logrus.FieldLogger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	requireAuth := middleware.AuthMiddleware(tokenManager)

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.AuthRateLimitLimit, cfg.RateLimitPeriod)
	{
		authGroup.POST("/register", authRateLimit, h.Auth.Register)
		authGroup.POST("/login", authRateLimit, h.Auth.Login)
		authGroup.POST("/refresh", authRateLimit, h.Auth.Refresh)
		authGroup.POST("/logout", requireAuth, h.Auth.Logout)
		authGroup.GET("/me", requireAuth, h.Auth.Me)
	}

	// Публичные маршруты
	api.GET("/ws", h.WS.Handle)
	api.GET("/gigs", h.Gig.ListGigs)
	api.GET("/gigs/:gigId", middleware.UUIDValidator("gigId"), h.Gig.GetGig)
	api.GET("/gigs/:gigId/bids", middleware.UUIDValidator("gigId"), h.Bid.ListBids)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(requireAuth)
	{
		protected.POST("/gigs", h.Gig.CreateGig)
		protected.PUT("/gigs/:gigId", middleware.UUIDValidator("gigId"), h.Gig.UpdateGig)
		protected.DELETE("/gigs/:gigId", middleware.UUIDValidator("gigId"), h.Gig.DeleteGig)
		protected.POST("/gigs/:gigId/cancel", middleware.UUIDValidator("gigId"), h.Gig.CancelGig)

		bidRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.POST("/gigs/:gigId/bids", middleware.UUIDValidator("gigId"), bidRateLimit, h.Bid.PlaceBid)
		protected.POST("/gigs/:gigId/bids/:bidId/accept", middleware.UUIDValidator("gigId"), middleware.UUIDValidator("bidId"), h.Bid.AcceptBid)

		protected.GET("/users/me/gigs", h.Gig.ListMyGigs)
		protected.GET("/users/me/bids", h.Bid.ListMyBids)
		protected.GET("/users/me/notifications", h.Notification.ListNotifications)
		protected.PATCH("/users/me/notifications/read-all", h.Notification.MarkAllRead)
		protected.PATCH("/users/me/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkRead)
	}

	return r
}
