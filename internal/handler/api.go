package handler

import (
	"time"

	"github.com/pressroom/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	auth         *service.AuthService
	publications *service.PublicationService
	logger       *zap.Logger
	devMode      bool
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, logger *zap.Logger, jwtSecret string, tokenTTL time.Duration, devMode bool) *API {
	if logger == nil {
		logger = zap.NewNop()
	}

	tokens := service.NewTokenService(jwtSecret, tokenTTL)

	return &API{
		db:           gdb,
		auth:         service.NewAuthService(gdb, tokens),
		publications: service.NewPublicationService(gdb),
		logger:       logger,
		devMode:      devMode,
	}
}

// Auth exposes the auth service for middleware wiring.
func (a *API) Auth() *service.AuthService {
	return a.auth
}
