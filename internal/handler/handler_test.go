package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/db"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTest(t *testing.T) (*gin.Engine, *API) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Publication{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	api := NewAPI(gdb, zap.NewNop(), "handler-test-secret", time.Hour, false)

	r := gin.New()
	r.POST("/auth/register", api.Register)
	r.POST("/auth/login", api.Login)
	r.GET("/auth/profile", api.AuthRequired(), api.Profile)

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

	return r, api
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return body
}

func registerTestUser(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	rr := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"password": "secret123",
		"name":     "Tester",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, rr.Code, rr.Body.String())
	}
	token, _ := decodeBody(t, rr)["token"].(string)
	if token == "" {
		t.Fatalf("register %s: missing token", email)
	}
	return token
}

func createViaAPI(t *testing.T, r http.Handler, token, title string) uint {
	t.Helper()
	rr := doJSON(t, r, http.MethodPost, "/publications", token, gin.H{
		"title":   title,
		"content": "content of " + title,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %q: expected 201, got %d: %s", title, rr.Code, rr.Body.String())
	}
	publication, _ := decodeBody(t, rr)["publication"].(map[string]interface{})
	id, _ := publication["id"].(float64)
	if id == 0 {
		t.Fatalf("create %q: missing id in %s", title, rr.Body.String())
	}
	return uint(id)
}
