package cases

import (
	"log/slog"
	"net/http"
	"time"

	"adhi/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for cases
type Handler struct {
	repo Repository
	now  func() time.Time
}

// NewHandler creates a new cases handler
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo, now: time.Now}
}

// List handles GET /api/cases?search=&status=
func (h *Handler) List(c *gin.Context) {
	sess, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	all, err := h.repo.List(c.Request.Context(), sess.Role)
	if err != nil {
		slog.Error("Failed to list cases", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cases"})
		return
	}

	filtered := Filter(all, c.Query("search"), c.Query("status"))
	c.JSON(http.StatusOK, ListResponse{
		Title: ListTitle(sess.Role),
		Count: len(filtered),
		Cases: filtered,
	})
}

// Dashboard handles GET /api/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	sess, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	all, err := h.repo.List(c.Request.Context(), sess.Role)
	if err != nil {
		slog.Error("Failed to load dashboard", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	recent := all
	if len(recent) > 3 {
		recent = recent[:3]
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  sess,
		"stats": Summarize(all, h.now()),
		"cases": recent,
	})
}
