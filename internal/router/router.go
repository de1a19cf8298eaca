package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/handler"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries the knobs SetupRouter needs beyond the database handle.
type Options struct {
	Logger    *zap.Logger
	JWTSecret string
	TokenTTL  time.Duration
	DevMode   bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.RequestLogger(logger))

	api := handler.NewAPI(gdb, logger, opts.JWTSecret, opts.TokenTTL, opts.DevMode)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)
		auth.GET("/profile", api.AuthRequired(), api.Profile)
	}

	publications := r.Group("/publications")
	publications.Use(api.AuthRequired())
	{
		publications.GET("", api.ListPublications)
		publications.GET("/stats", api.PublicationStats)
		publications.GET("/:id", api.GetPublication)
		publications.GET("/:id/preview", api.PreviewPublication)
		publications.POST("", api.CreatePublication)
		publications.PUT("/:id", api.UpdatePublication)
		publications.DELETE("/:id", api.DeletePublication)
		publications.POST("/bulk-delete", api.BulkDeletePublications)
		publications.POST("/:id/restore", api.RestorePublication)
	}

	return r
}
