package events

import (
	"errors"
	"log/slog"
	"net/http"

	"adhi/internal/session"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for calendar events
type Handler struct {
	service *Service
}

// NewHandler creates a new events handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// userMessages holds the wording the event form shows
var userMessages = map[error]string{
	ErrTitleRequired: "Please enter a title for the event",
	ErrInvalidDate:   "Please pick a valid date",
	ErrInvalidTime:   "Please enter a time like 10:00 AM",
	ErrUnknownType:   "Please select an event type",
	ErrUnknownCase:   "Please select one of your cases",
	ErrInvalidMonth:  "Please pick a valid month",
}

// Types handles GET /api/events/types
func (h *Handler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": EventTypes})
}

// List handles GET /api/events?month=YYYY-MM&date=YYYY-MM-DD
func (h *Handler) List(c *gin.Context) {
	sess, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	events, err := h.service.List(c.Request.Context(), sess.Role, c.Query("month"), c.Query("date"))
	if err != nil {
		h.fail(c, "Failed to list events", err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: len(events), Events: events})
}

// Create handles POST /api/events
func (h *Handler) Create(c *gin.Context) {
	sess, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := h.service.Create(c.Request.Context(), sess.Role, req)
	if err != nil {
		h.fail(c, "Failed to create event", err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *Handler) fail(c *gin.Context, message string, err error) {
	for sentinel, text := range userMessages {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusBadRequest, gin.H{"error": text})
			return
		}
	}

	slog.Error(message, "error", err, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load calendar"})
}
