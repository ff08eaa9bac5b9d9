package routes

import (
	"net/http"

	"hideandseek/handlers"
	"hideandseek/middleware"
	"hideandseek/monitor"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	gameHandler *handlers.GameHandler,
	questionHandler *handlers.QuestionHandler,
	locationHandler *handlers.LocationHandler,
	mapHandler *handlers.MapHandler,
) {
	api := router.Group("/api")
	{
		maps := api.Group("/maps")
		{
			maps.GET("", mapHandler.ListMaps)
			maps.GET("/:mapId", mapHandler.GetMap)
		}

		games := api.Group("/games")
		games.Use(middleware.ClientID())
		{
			games.POST("", gameHandler.CreateGame)
			games.POST("/join", gameHandler.JoinGame)
			games.GET("/:gameId", gameHandler.GetGame)
			games.PATCH("/:gameId/players/:playerId", gameHandler.UpdatePlayer)
			games.POST("/:gameId/start", gameHandler.StartGame)
			games.POST("/:gameId/end", gameHandler.EndGame)
			games.GET("/:gameId/map", gameHandler.EffectiveMap)

			games.POST("/:gameId/location", locationHandler.Report)
			games.GET("/:gameId/location-history", locationHandler.History)

			games.POST("/:gameId/questions", questionHandler.AskQuestion)
			games.GET("/:gameId/questions", questionHandler.ListQuestions)
			games.POST("/:gameId/questions/:questionId/lock-in", questionHandler.LockIn)
			games.GET("/:gameId/questions/:questionId/preview", questionHandler.Preview)
			games.POST("/:gameId/questions/:questionId/answer", questionHandler.Answer)
		}
	}

	router.GET("/metrics", monitor.Handler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
