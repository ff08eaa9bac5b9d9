package handlers

import (
	"net/http"
	"strconv"

	"hideandseek/services"

	"github.com/gin-gonic/gin"
)

type MapHandler struct {
	mapService *services.MapService
}

func NewMapHandler(mapService *services.MapService) *MapHandler {
	return &MapHandler{mapService: mapService}
}

func (h *MapHandler) ListMaps(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageLimit)))

	maps, err := h.mapService.ListMaps(offset, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, maps)
}

func (h *MapHandler) GetMap(c *gin.Context) {
	mapID, ok := pathUUID(c, "mapId")
	if !ok {
		return
	}

	gameMap, err := h.mapService.GetMap(mapID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gameMap)
}
