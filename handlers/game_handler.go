package handlers

import (
	"net/http"

	"hideandseek/middleware"
	"hideandseek/monitor"
	"hideandseek/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
	mapService  *services.MapService
	metrics     *monitor.Metrics
}

func NewGameHandler(gameService *services.GameService, mapService *services.MapService, metrics *monitor.Metrics) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		mapService:  mapService,
		metrics:     metrics,
	}
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "X-Client-Id header is required"})
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(req.MapID, clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.GamesCreated.Inc()
	}
	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) JoinGame(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "X-Client-Id header is required"})
		return
	}

	var req services.JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	result, err := h.gameService.JoinGame(&req, clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) UpdatePlayer(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}
	playerID, ok := pathUUID(c, "playerId")
	if !ok {
		return
	}

	var upd services.PlayerUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	player, err := h.gameService.UpdatePlayer(gameID, playerID, &upd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

func (h *GameHandler) StartGame(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.StartGame(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) EndGame(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.EndGame(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) EffectiveMap(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	effective, err := h.mapService.EffectiveMap(&game.Game)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, effective)
}
