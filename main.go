package main

import (
	"hideandseek/config"
	"hideandseek/handlers"
	"hideandseek/logger"
	"hideandseek/middleware"
	"hideandseek/models"
	"hideandseek/monitor"
	"hideandseek/routes"
	"hideandseek/services"

	"github.com/gin-gonic/gin"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Log.Fatalw("failed to connect to database", "error", err)
	}

	err = db.AutoMigrate(
		&models.TransitDataset{},
		&models.Stop{},
		&models.Route{},
		&models.RouteStop{},
		&models.GameMap{},
		&models.Game{},
		&models.Player{},
		&models.Question{},
		&models.LocationUpdate{},
	)
	if err != nil {
		logger.Log.Fatalw("failed to migrate database", "error", err)
	}

	redisClient := config.InitRedis(cfg)

	metrics := monitor.NewMetrics("hideandseek")

	locks := services.NewGameLocks()
	gameService := services.NewGameService(db, locks)
	questionService := services.NewQuestionService(db, locks, services.PendingAnswerEngine{})
	locationService := services.NewLocationService(db)
	mapService := services.NewMapService(db, redisClient)

	gameHandler := handlers.NewGameHandler(gameService, mapService, metrics)
	questionHandler := handlers.NewQuestionHandler(gameService, questionService, metrics)
	locationHandler := handlers.NewLocationHandler(gameService, locationService, metrics)
	mapHandler := handlers.NewMapHandler(mapService)

	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(metrics.Middleware())

	routes.SetupRoutes(router, gameHandler, questionHandler, locationHandler, mapHandler)

	logger.Log.Infow("server starting", "port", cfg.Port)
	if err := router.Run(cfg.BindAddress + ":" + cfg.Port); err != nil {
		logger.Log.Fatalw("failed to start server", "error", err)
	}
}
