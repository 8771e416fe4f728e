// Package app собирает зависимости сервера.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gigflow-backend/internal/config"
	"github.com/ignatzorin/gigflow-backend/internal/http/router"
	"github.com/ignatzorin/gigflow-backend/internal/interface/http/handler"
	"github.com/ignatzorin/gigflow-backend/internal/logger"
	"github.com/ignatzorin/gigflow-backend/internal/service"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/bid"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/gig"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/notification"
	"github.com/ignatzorin/gigflow-backend/internal/usecase/view"
	"github.com/ignatzorin/gigflow-backend/internal/ws"
)

type App struct {
	Engine *gin.Engine
	Hub    *ws.Hub
	Tokens *service.TokenManager
	Auth   *service.AuthService
}

// Option меняет сборку (в тестах, например, стоимость bcrypt).
type Option func(*options)

type options struct {
	hashCost int
}

func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

// New собирает use cases, хэндлеры и роутер. Hub нужно запустить отдельно (Hub.Run).
func New(cfg *config.Config, backend *Backend, log logrus.FieldLogger, opts ...Option) *App {
	log = logger.OrDefault(log)
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	hub := ws.NewHub(log)
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(backend.Users, tokenManager)
	if o.hashCost > 0 {
		authService.WithHashCost(o.hashCost)
	}

	resolver := view.NewResolver(backend.Users)
	dispatcher := notification.NewDispatcher(backend.Notifications, hub, log)

	gigHandler := handler.NewGigHandler(
		gig.NewCreateGigUseCase(backend.Gigs, resolver),
		gig.NewUpdateGigUseCase(backend.Tx, resolver),
		gig.NewDeleteGigUseCase(backend.Tx, log),
		gig.NewCancelGigUseCase(backend.Tx, resolver),
		gig.NewGetGigUseCase(backend.Gigs, backend.Bids, resolver),
		gig.NewListGigsUseCase(backend.Gigs, resolver),
		gig.NewListMyGigsUseCase(backend.Gigs, resolver),
	)

	bidHandler := handler.NewBidHandler(
		bid.NewPlaceBidUseCase(backend.Tx, dispatcher, resolver, log),
		bid.NewListBidsUseCase(backend.Bids, resolver),
		bid.NewAcceptBidUseCase(backend.Tx, backend.Bids, dispatcher, resolver, cfg.AcceptBidTimeout, log),
		bid.NewListMyBidsUseCase(backend.Bids, backend.Gigs, resolver),
	)

	notificationHandler := handler.NewNotificationHandler(
		notification.NewListInboxUseCase(backend.Notifications, cfg.InboxLimit),
		notification.NewMarkReadUseCase(backend.Notifications),
		notification.NewMarkAllReadUseCase(backend.Notifications),
	)

	engine := router.SetupRouter(cfg, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Gig:          gigHandler,
		Bid:          bidHandler,
		Notification: notificationHandler,
		WS:           handler.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins, log),
		Health:       handler.NewHealthHandler(backend.Pinger, backend.Name),
	}, tokenManager, log)

	return &App{
		Engine: engine,
		Hub:    hub,
		Tokens: tokenManager,
		Auth:   authService,
	}
}
