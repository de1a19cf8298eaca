package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type createPublicationRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=50000"`
	Status  string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type updatePublicationRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,min=1,max=50000"`
	Status  *string `json:"status" binding:"omitempty,oneof=draft published archived"`
}

type bulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ListPublications returns the caller's visible publications with
// pagination metadata.
func (a *API) ListPublications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !db.ValidStatus(status) {
		respondError(c, http.StatusBadRequest, "status must be one of: draft published archived")
		return
	}

	filter := service.PublicationFilter{
		Status: status,
		Page:   parseIntQuery(c, "page", service.DefaultPage),
		Limit:  parseIntQuery(c, "limit", service.DefaultLimit),
	}

	result, err := a.publications.List(user.ID, filter)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"publications": result.Publications,
		"pagination": gin.H{
			"page":  result.Page,
			"limit": result.Limit,
			"total": result.Total,
			"pages": result.Pages,
		},
	})
}

// GetPublication returns a single owned publication.
func (a *API) GetPublication(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	publication, err := a.publications.Get(id, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"publication": publication})
}

// CreatePublication persists a new publication for the caller.
func (a *API) CreatePublication(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	var req createPublicationRequest
	if !bindJSON(c, &req) {
		return
	}

	publication, err := a.publications.Create(user.ID, service.PublicationInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "publication created", "publication": publication})
}

// UpdatePublication applies a partial update to an owned publication.
func (a *API) UpdatePublication(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req updatePublicationRequest
	if !bindJSON(c, &req) {
		return
	}

	publication, err := a.publications.Update(id, user.ID, service.PublicationPatch{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "publication updated", "publication": publication})
}

// DeletePublication soft-deletes an owned publication.
func (a *API) DeletePublication(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.publications.SoftDelete(id, user.ID); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "publication deleted"})
}

// BulkDeletePublications soft-deletes the listed owned publications in one
// statement, skipping ids that are foreign or already deleted.
func (a *API) BulkDeletePublications(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	var req bulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	count, err := a.publications.BulkSoftDelete(req.IDs, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "publications deleted", "deletedCount": count})
}

// RestorePublication brings a soft-deleted owned publication back.
func (a *API) RestorePublication(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	publication, err := a.publications.Restore(id, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "publication restored", "publication": publication})
}

// PublicationStats returns per-status counts of the caller's visible
// publications.
func (a *API) PublicationStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	stats, err := a.publications.Stats(user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// PreviewPublication renders the publication content from markdown to
// sanitized HTML.
func (a *API) PreviewPublication(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "access token required")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	publication, err := a.publications.Get(id, user.ID)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	rendered, err := renderMarkdown(publication.Content)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": publication.ID, "html": rendered})
}

func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return string(sanitizer.SanitizeBytes(buf.Bytes())), nil
}
