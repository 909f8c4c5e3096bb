// Package gateway implements the mobile gateway: the HTTP surface the app shell talks to.
// Every device request is bound to the device's session namespace; /shell runs the
// session gate and /api routes admit only devices holding a valid session.
package gateway

import (
	"adhi/internal/auth"
	"adhi/internal/cases"
	"adhi/internal/documents"
	"adhi/internal/events"
	"adhi/internal/messages"
	"adhi/internal/metrics"
	"adhi/internal/session"

	"github.com/gin-gonic/gin"
)

// Dependencies wires the gateway's collaborators
type Dependencies struct {
	Store    session.Store
	Auth     auth.Service
	Cases    cases.Repository
	Events   events.Repository
	Messages messages.Repository
	Metrics  *metrics.Metrics
	Checks   map[string]HealthCheck
	// Documents is optional; the document routes are only registered when it is set.
	Documents *documents.Service

	LoginDestination string
	AllowedOrigins   []string
	SecureCookies    bool
}

// SetupRouter configures and returns the gateway router
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware(deps.AllowedOrigins))

	h := NewHandler(deps.Metrics, deps.Checks)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	device := r.Group("/")
	device.Use(DeviceMiddleware(deps.Store, deps.LoginDestination, deps.SecureCookies))

	device.GET("/shell", h.Shell)

	authHandler := auth.NewHandler(deps.Auth, deps.Metrics)
	authGroup := device.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/logout", authHandler.Logout)
	}

	api := device.Group("/api")
	api.Use(SessionGateMiddleware())
	{
		api.GET("/session", h.Session)

		casesHandler := cases.NewHandler(deps.Cases)
		api.GET("/cases", casesHandler.List)
		api.GET("/dashboard", casesHandler.Dashboard)

		eventsHandler := events.NewHandler(events.NewService(deps.Events, deps.Cases))
		api.GET("/events", eventsHandler.List)
		api.GET("/events/types", eventsHandler.Types)
		api.POST("/events", eventsHandler.Create)

		messagesHandler := messages.NewHandler(messages.NewService(deps.Messages))
		msgGroup := api.Group("/messages/groups")
		{
			msgGroup.GET("", messagesHandler.Groups)
			msgGroup.GET("/:id/messages", messagesHandler.Messages)
			msgGroup.POST("/:id/messages", messagesHandler.Send)
		}

		if deps.Documents != nil {
			docs := documents.NewHandler(deps.Documents, deps.Metrics)
			docGroup := api.Group("/documents")
			{
				docGroup.GET("/categories", docs.Categories)
				docGroup.GET("/health", docs.Health)
				docGroup.POST("/upload-url", docs.GenerateUploadURL)
				docGroup.POST("/download-url", docs.GenerateDownloadURL)
				docGroup.POST("/delete", docs.DeleteFile)
			}
		}
	}

	return r
}
