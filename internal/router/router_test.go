package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Publication{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return SetupRouter(gdb, Options{JWTSecret: "router-test-secret", TokenTTL: time.Hour})
}

func TestSetupRouterHealth(t *testing.T) {
	r := setupRouterTest(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestSetupRouterGuardsPublications(t *testing.T) {
	r := setupRouterTest(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/publications"},
		{http.MethodGet, "/publications/stats"},
		{http.MethodGet, "/publications/1"},
		{http.MethodGet, "/publications/1/preview"},
		{http.MethodPost, "/publications"},
		{http.MethodPut, "/publications/1"},
		{http.MethodDelete, "/publications/1"},
		{http.MethodPost, "/publications/bulk-delete"},
		{http.MethodPost, "/publications/1/restore"},
		{http.MethodGet, "/auth/profile"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", route.method, route.path, rr.Code)
		}
	}
}
