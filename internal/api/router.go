package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relief-service/internal/alerts"
	"relief-service/internal/logging"
	"relief-service/internal/metrics"
	"relief-service/internal/notify"
	"relief-service/internal/relief"
	"relief-service/internal/resources"
	"relief-service/internal/sos"
)

// Deps are the services the HTTP layer exposes.
type Deps struct {
	Alerts    *alerts.Service
	Locations *relief.Directory
	Resources *resources.Board
	SOS       *sos.Runner
	Locator   *sos.ReportedLocator
	Hub       *notify.Hub
	Metrics   *metrics.Metrics
	Logger    *logging.Logger
}

func NewRouter(basePath string, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(d.Logger, d.Metrics))

	h := NewHandler(d)
	api := r.Group(basePath)
	{
		// Alerts
		api.GET("/alerts", h.ListAlerts)
		api.POST("/alerts", h.CreateAlert)
		api.GET("/alerts/stats", h.AlertStats)
		api.POST("/alerts/:id/acknowledge", h.AcknowledgeAlert)

		// Relief map
		api.GET("/locations", h.ListLocations)
		api.GET("/locations/nearest", h.NearestLocations)

		// Resource board
		api.GET("/resources", h.ListResources)
		api.POST("/resources/requests", h.RequestResource)
		api.POST("/resources/offers", h.OfferResource)

		// SOS
		api.GET("/sos", h.GetSOS)
		api.POST("/sos/press", h.PressSOS)

		api.GET("/ws", h.ServeWS)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	return r
}
