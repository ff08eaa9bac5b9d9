package handlers

import (
	"net/http"

	"hideandseek/middleware"
	"hideandseek/monitor"
	"hideandseek/services"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	gameService     *services.GameService
	locationService *services.LocationService
	metrics         *monitor.Metrics
}

func NewLocationHandler(gameService *services.GameService, locationService *services.LocationService, metrics *monitor.Metrics) *LocationHandler {
	return &LocationHandler{
		gameService:     gameService,
		locationService: locationService,
		metrics:         metrics,
	}
}

func (h *LocationHandler) Report(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "X-Client-Id header is required"})
		return
	}

	player, err := h.gameService.PlayerByClient(gameID, clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	var req services.LocationReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	visible, err := h.locationService.Report(gameID, player.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LocationReports.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"players": visible})
}

func (h *LocationHandler) History(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}

	history, err := h.locationService.History(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
