package documents

import (
	"errors"
	"log/slog"
	"net/http"

	"adhi/internal/metrics"
	"adhi/internal/navigation"
	"adhi/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for case documents
type Handler struct {
	service *Service
	metrics *metrics.Metrics
}

// NewHandler creates a new documents handler
func NewHandler(service *Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

// Categories handles GET /api/documents/categories
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": Categories})
}

// GenerateUploadURL handles POST /api/documents/upload-url
func (h *Handler) GenerateUploadURL(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.GenerateUploadURL(c.Request.Context(), sess.Role, &req)
	if err != nil {
		h.fail(c, "Failed to generate upload URL", "GENERATION_FAILED", err)
		return
	}

	h.metrics.ObservePresign("upload")
	c.JSON(http.StatusOK, response)
}

// GenerateDownloadURL handles POST /api/documents/download-url
func (h *Handler) GenerateDownloadURL(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}

	var req FileKeyRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.GenerateDownloadURL(c.Request.Context(), sess.Role, req.FileKey)
	if err != nil {
		h.fail(c, "Failed to generate download URL", "GENERATION_FAILED", err)
		return
	}

	h.metrics.ObservePresign("download")
	c.JSON(http.StatusOK, response)
}

// DeleteFile handles POST /api/documents/delete. Only lawyers may remove documents.
func (h *Handler) DeleteFile(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	if !navigation.IsLawyer(sess.Role) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only lawyers can delete documents", Code: "FORBIDDEN"})
		return
	}

	var req FileKeyRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.DeleteFile(c.Request.Context(), sess.Role, req.FileKey); err != nil {
		h.fail(c, "Failed to delete file", "DELETE_FAILED", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "File deleted successfully",
		"file_key": req.FileKey,
	})
}

// Health reports storage reachability
func (h *Handler) Health(c *gin.Context) {
	if err := h.service.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func requireSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: "UNAUTHORIZED"})
	}
	return sess, ok
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// fail maps service errors: validation is 400, foreign cases 403, the rest 500
func (h *Handler) fail(c *gin.Context, message, code string, err error) {
	switch {
	case errors.Is(err, ErrInvalidUpload):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "INVALID_REQUEST", Details: err.Error()})
	case errors.Is(err, ErrInvalidFileKey):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File key is invalid", Code: "INVALID_FILE_KEY"})
	case errors.Is(err, ErrCaseNotAccessible):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have access to this case", Code: "CASE_FORBIDDEN"})
	default:
		slog.Error(message, "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message, Code: code})
	}
}
