package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"adhi/internal/gate"
	"adhi/internal/metrics"
	"adhi/internal/navigation"

	"github.com/gin-gonic/gin"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	service Service
	metrics *metrics.Metrics
}

// NewHandler creates a new authentication handler
func NewHandler(service Service, m *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		metrics: m,
	}
}

// userMessages holds the wording the sign-in and registration screens show
var userMessages = map[error]string{
	ErrMissingCredentials: "Please enter email and password",
	ErrInvalidCredentials: "Invalid email or password",
	ErrRoleRequired:       "Please select an account type before continuing.",
	ErrInvalidRole:        "Please select an account type before continuing.",
	ErrMissingFields:      "Please fill in all fields",
	ErrInvalidEmail:       "Please enter a valid email address",
	ErrPasswordMismatch:   "Passwords do not match",
	ErrPasswordTooLong:    "Password must be at most 72 characters",
	ErrEmailExists:        "This email is already registered",
}

// Login handles POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	provider, ok := gate.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session scope unavailable"})
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.metrics.ObserveAuth("login", "rejected")
		h.fail(c, "login", err)
		return
	}

	if err := provider.Begin(c.Request.Context(), sess); err != nil {
		h.metrics.ObserveAuth("login", "error")
		slog.Error("Failed to store session", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	h.metrics.ObserveAuth("login", "success")
	c.JSON(http.StatusOK, AuthResponse{Session: sess, Redirect: HomeDestination})
}

// Register handles POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	provider, ok := gate.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session scope unavailable"})
		return
	}

	sess, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.metrics.ObserveAuth("register", "rejected")
		h.fail(c, "register", err)
		return
	}

	if err := provider.Begin(c.Request.Context(), sess); err != nil {
		h.metrics.ObserveAuth("register", "error")
		slog.Error("Failed to store session", "error", err, "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	h.metrics.ObserveAuth("register", "success")
	c.JSON(http.StatusCreated, AuthResponse{Session: sess, Redirect: HomeDestination})
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	provider, ok := gate.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session scope unavailable"})
		return
	}

	var nav navigation.Recorder
	if err := provider.Logout(c.Request.Context(), &nav); err != nil {
		h.metrics.ObserveAuth("logout", "error")
	} else {
		h.metrics.ObserveAuth("logout", "success")
	}

	redirect, _ := nav.Redirect()
	c.JSON(http.StatusOK, gin.H{
		"message":  "logged out successfully",
		"redirect": redirect,
	})
}

func (h *Handler) fail(c *gin.Context, event string, err error) {
	for sentinel, message := range userMessages {
		if errors.Is(err, sentinel) {
			c.JSON(statusFor(sentinel), gin.H{"error": message})
			return
		}
	}

	slog.Error("Authentication failed",
		"event", event,
		"error", err,
		"request_id", c.GetString("request_id"),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication is unavailable, please try again"})
}

func statusFor(err error) int {
	switch err {
	case ErrInvalidCredentials:
		return http.StatusUnauthorized
	case ErrEmailExists:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
