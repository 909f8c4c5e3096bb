package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"adhi/internal/gate"
	"adhi/internal/metrics"
	"adhi/internal/navigation"
	"adhi/internal/session"

	"github.com/gin-gonic/gin"
)

// ShellResponse describes what the app shell renders after the session gate settles
type ShellResponse struct {
	Status       gate.Status              `json:"status"`
	Session      *session.Session         `json:"session,omitempty"`
	Destinations []navigation.Destination `json:"destinations,omitempty"`
	Redirect     string                   `json:"redirect,omitempty"`
	Navigation   []navigation.Step        `json:"navigation,omitempty"`
}

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// Handler serves the shell and gateway level endpoints
type Handler struct {
	metrics *metrics.Metrics
	checks  map[string]HealthCheck
}

// NewHandler creates a gateway handler
func NewHandler(m *metrics.Metrics, checks map[string]HealthCheck) *Handler {
	return &Handler{metrics: m, checks: checks}
}

// Shell handles GET /shell. It mounts a session gate for the device and waits for it to
// settle: unauthenticated devices get the login redirect, authenticated devices get
// their session and role-specific destinations. If the client goes away first the gate
// is unmounted and nothing is written.
func (h *Handler) Shell(c *gin.Context) {
	provider, ok := gate.FromContext(c.Request.Context())
	if !ok {
		slog.Error("Shell requested without device middleware", "request_id", c.GetString("request_id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	nav := &navigation.Recorder{}
	g := gate.New(provider, nav,
		gate.WithLoginDestination(provider.LoginDestination()),
		gate.WithObserver(func(s gate.Status) { h.metrics.ObserveGate(s.String()) }),
	)

	g.Mount(c.Request.Context())
	defer g.Unmount()

	res := g.Wait(c.Request.Context())

	switch res.Status {
	case gate.StatusAuthenticated:
		c.Set("role", res.Session.Role)
		c.JSON(http.StatusOK, ShellResponse{
			Status:       res.Status,
			Session:      res.Session,
			Destinations: navigation.DeriveVisibleDestinations(res.Session.Role),
		})
	case gate.StatusUnauthenticated:
		redirect, _ := nav.Redirect()
		c.JSON(http.StatusOK, ShellResponse{
			Status:     res.Status,
			Redirect:   redirect,
			Navigation: nav.Steps(),
		})
	default:
		slog.Debug("Client left before the session gate settled",
			"request_id", c.GetString("request_id"),
			"error", c.Request.Context().Err(),
		)
		c.Abort()
	}
}

// Session handles GET /api/session
func (h *Handler) Session(c *gin.Context) {
	sess, ok := session.FromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":      sess,
		"role":         navigation.ParseRole(sess.Role),
		"destinations": navigation.Visible(navigation.DeriveVisibleDestinations(sess.Role)),
	})
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Warn("Health check failed", "dependency", name, "error", err)
			results[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "mobile-gateway",
		"checks":  results,
	})
}
