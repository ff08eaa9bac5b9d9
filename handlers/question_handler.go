package handlers

import (
	"net/http"

	"hideandseek/middleware"
	"hideandseek/models"
	"hideandseek/monitor"
	"hideandseek/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	gameService     *services.GameService
	questionService *services.QuestionService
	metrics         *monitor.Metrics
}

func NewQuestionHandler(gameService *services.GameService, questionService *services.QuestionService, metrics *monitor.Metrics) *QuestionHandler {
	return &QuestionHandler{
		gameService:     gameService,
		questionService: questionService,
		metrics:         metrics,
	}
}

// callerPlayer resolves the caller to their player record in the game.
func (h *QuestionHandler) callerPlayer(c *gin.Context) (*models.Player, bool) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return nil, false
	}
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "X-Client-Id header is required"})
		return nil, false
	}

	player, err := h.gameService.PlayerByClient(gameID, clientID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return player, true
}

func (h *QuestionHandler) AskQuestion(c *gin.Context) {
	player, ok := h.callerPlayer(c)
	if !ok {
		return
	}

	var req services.AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questionService.AskQuestion(player.GameID, player.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.QuestionsAsked.Inc()
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) LockIn(c *gin.Context) {
	player, ok := h.callerPlayer(c)
	if !ok {
		return
	}
	questionID, ok := pathUUID(c, "questionId")
	if !ok {
		return
	}

	question, err := h.questionService.LockIn(player.GameID, questionID, player.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Preview(c *gin.Context) {
	gameID, ok := pathUUID(c, "gameId")
	if !ok {
		return
	}
	questionID, ok := pathUUID(c, "questionId")
	if !ok {
		return
	}

	preview, err := h.questionService.PreviewAnswer(gameID, questionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

func (h *QuestionHandler) Answer(c *gin.Context) {
	player, ok := h.callerPlayer(c)
	if !ok {
		return
	}
	questionID, ok := pathUUID(c, "questionId")
	if !ok {
		return
	}

	question, err := h.questionService.AnswerQuestion(player.GameID, questionID, player.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	player, ok := h.callerPlayer(c)
	if !ok {
		return
	}

	questions, err := h.questionService.ListQuestions(player.GameID, player.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}
