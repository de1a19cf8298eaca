package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pressroom/internal/config"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/router"
	"go.uber.org/zap"
)

func main() {
	// .env 文件缺失时静默忽略
	_ = godotenv.Load()

	cfg := config.Load()

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.String("addr", cfg.ListenAddr),
		zap.String("database", cfg.DatabasePath),
		zap.String("env", cfg.Env),
	)

	gin.SetMode(cfg.GinMode)

	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	r := router.SetupRouter(gdb, router.Options{
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		DevMode:   cfg.IsDevelopment(),
	})

	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}

func newLogger(cfg config.AppConfig) *zap.Logger {
	if cfg.IsDevelopment() {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
