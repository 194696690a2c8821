package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"relief-service/internal/alerts"
	"relief-service/internal/logging"
	"relief-service/internal/models"
	"relief-service/internal/notify"
	"relief-service/internal/relief"
	"relief-service/internal/resources"
	"relief-service/internal/sos"
)

type Handler struct {
	alerts    *alerts.Service
	locations *relief.Directory
	resources *resources.Board
	sos       *sos.Runner
	locator   *sos.ReportedLocator
	hub       *notify.Hub
	logger    *logging.Logger
	now       func() time.Time
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		alerts:    d.Alerts,
		locations: d.Locations,
		resources: d.Resources,
		sos:       d.SOS,
		locator:   d.Locator,
		hub:       d.Hub,
		logger:    d.Logger,
		now:       time.Now,
	}
}

// alertView adds the dashboard presentation fields to an alert.
type alertView struct {
	models.Alert
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
	Badge models.Badge `json:"badge"`
}

func newAlertView(a models.Alert) alertView {
	return alertView{Alert: a, Icon: a.Category.Icon(), Color: a.Priority.Color(), Badge: a.Source.Badge()}
}

func (h *Handler) ListAlerts(c *gin.Context) {
	filter, err := alerts.ParseFilter(c.DefaultQuery("priority", "all"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views := []alertView{}
	for a := range h.alerts.Store().FilterByPriority(filter) {
		views = append(views, newAlertView(a))
	}
	stats := h.alerts.Stats()
	c.JSON(http.StatusOK, gin.H{
		"filter":      filter.String(),
		"alerts":      views,
		"total":       stats.Total,
		"active":      stats.Active,
		"by_priority": stats.ByPriority,
	})
}

type createAlertRequest struct {
	ID             string    `json:"id"`
	Category       string    `json:"category" binding:"required"`
	Title          string    `json:"title" binding:"required"`
	Message        string    `json:"message"`
	Location       string    `json:"location"`
	Priority       string    `json:"priority" binding:"required"`
	Source         string    `json:"source" binding:"required"`
	CreatedAt      time.Time `json:"created_at"`
	ActionRequired bool      `json:"action_required"`
}

func (h *Handler) CreateAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid request body for alert: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	a := models.Alert{
		ID:             req.ID,
		Category:       models.Category(req.Category),
		Title:          req.Title,
		Message:        req.Message,
		Location:       req.Location,
		CreatedAt:      req.CreatedAt,
		Priority:       models.Priority(req.Priority),
		Source:         models.Source(req.Source),
		Active:         true,
		ActionRequired: req.ActionRequired,
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = h.now()
	}
	if err := a.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.alerts.Ingest(a)
	c.JSON(http.StatusCreated, newAlertView(a))
}

func (h *Handler) AcknowledgeAlert(c *gin.Context) {
	id := c.Param("id")
	ok := h.alerts.Acknowledge(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"id": id, "acknowledged": ok})
}

func (h *Handler) AlertStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.alerts.Stats())
}

type locationView struct {
	models.ReliefLocation
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (h *Handler) ListLocations(c *gin.Context) {
	locs, err := h.locations.List(c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	views := make([]locationView, 0, len(locs))
	for _, l := range locs {
		views = append(views, locationView{ReliefLocation: l, Icon: l.Kind.Icon(), Color: l.Kind.Color()})
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) NearestLocations(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat/lng"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	c.JSON(http.StatusOK, h.locations.Nearest(lat, lng, limit))
}

type resourceView struct {
	models.Resource
	Icon string `json:"icon"`
}

func (h *Handler) ListResources(c *gin.Context) {
	list, err := h.resources.List(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	views := make([]resourceView, 0, len(list))
	for _, r := range list {
		views = append(views, resourceView{Resource: r, Icon: r.Category.Icon()})
	}
	c.JSON(http.StatusOK, gin.H{"resources": views, "requests": h.resources.Requests()})
}

func (h *Handler) RequestResource(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req, err := h.resources.Request(c.Request.Context(), body.Text)
	if errors.Is(err, resources.ErrEmptyRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Errorf("Failed to post resource request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post request"})
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *Handler) OfferResource(c *gin.Context) {
	var offer models.Resource
	if err := c.ShouldBindJSON(&offer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	r, err := h.resources.Offer(c.Request.Context(), offer)
	if errors.Is(err, resources.ErrInvalidOffer) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Errorf("Failed to register resource offer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register offer"})
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetSOS(c *gin.Context) {
	c.JSON(http.StatusOK, h.sos.Snapshot())
}

// PressSOS accepts an optional position fix in the body; it becomes the
// location the next countdown reports.
func (h *Handler) PressSOS(c *gin.Context) {
	if c.Request.ContentLength > 0 {
		var fix models.Coordinates
		if err := c.ShouldBindJSON(&fix); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location"})
			return
		}
		if h.locator != nil {
			h.locator.Report(fix)
		}
	}

	outcome := h.sos.Press(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "session": h.sos.Snapshot()})
}

func (h *Handler) ServeWS(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}
