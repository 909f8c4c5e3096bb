package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"adhi/internal/gate"
	"adhi/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DeviceCookie identifies the device whose session namespace a request uses
	DeviceCookie = "device_id"
	// DeviceHeader lets native clients without a cookie jar name their device
	DeviceHeader = "X-Device-ID"

	deviceCookieMaxAge = 365 * 24 * 60 * 60
)

// UnauthenticatedResponse is returned by gated routes when the device has no session
type UnauthenticatedResponse struct {
	Status   gate.Status `json:"status"`
	Redirect string      `json:"redirect"`
}

// RequestIDMiddleware generates a unique request ID for log correlation
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// CORSMiddleware allows the configured app origins to call the gateway with credentials.
// With no origins configured every cross-origin request is refused.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", DeviceHeader},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}

// DeviceMiddleware binds every request to its device's session namespace. A device
// without a valid id gets a fresh one in the device_id cookie. The device's
// gate.Provider is placed in the request context.
func DeviceMiddleware(store session.Store, loginDestination string, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, ok := deviceIDFrom(c)
		if !ok {
			deviceID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(DeviceCookie, deviceID, deviceCookieMaxAge, "/", "", secureCookies, true)
		}
		c.Set("device_id", deviceID)

		manager := session.NewManager(session.Namespace(store, "device:"+deviceID+":"))
		provider := gate.NewProvider(manager, loginDestination, slog.Default().With(
			"device_id", deviceID,
			"request_id", c.GetString("request_id"),
		))

		c.Request = c.Request.WithContext(gate.NewContext(c.Request.Context(), provider))
		c.Next()
	}
}

func deviceIDFrom(c *gin.Context) (string, bool) {
	candidates := []string{c.GetHeader(DeviceHeader)}
	if cookie, err := c.Cookie(DeviceCookie); err == nil {
		candidates = append(candidates, cookie)
	}

	for _, candidate := range candidates {
		if id, err := uuid.Parse(candidate); err == nil {
			return id.String(), true
		}
	}
	return "", false
}

// SessionGateMiddleware admits only devices holding a valid session. Everything else is
// answered with 401 and the login destination to replace to.
func SessionGateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		provider, ok := gate.FromContext(c.Request.Context())
		if !ok {
			slog.Error("Session gate used without device middleware", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		res := provider.Current(c.Request.Context())
		if res.Status != gate.StatusAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthenticatedResponse{
				Status:   gate.StatusUnauthenticated,
				Redirect: provider.LoginDestination(),
			})
			return
		}

		c.Set("role", res.Session.Role)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), res.Session))
		c.Next()
	}
}

// LoggingMiddleware logs all requests passing through the gateway with structured JSON
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(time.Since(start).Milliseconds()),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"response_size", c.Writer.Size(),
		}

		if query := c.Request.URL.RawQuery; query != "" {
			attrs = append(attrs, "query", query)
		}
		if deviceID, exists := c.Get("device_id"); exists {
			attrs = append(attrs, "device_id", deviceID)
		}
		if role, exists := c.Get("role"); exists {
			attrs = append(attrs, "role", role)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("Request failed - server error", attrs...)
		case status >= 400:
			slog.Warn("Request failed - client error", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	}
}
