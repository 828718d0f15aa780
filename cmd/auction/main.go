package main

import (
	"context"
	"log"

	"github.com/auctioncore/auction-engine/configuration/config"
	"github.com/auctioncore/auction-engine/configuration/database/mongodb"
	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/engine"
	"github.com/auctioncore/auction-engine/internal/engine/clock"
	"github.com/auctioncore/auction-engine/internal/engine/hub"
	"github.com/auctioncore/auction-engine/internal/infra/api/web/controller/engine_controller"
	"github.com/auctioncore/auction-engine/internal/infra/api/web/controller/stream_controller"
	"github.com/auctioncore/auction-engine/internal/infra/database/store"
	"github.com/auctioncore/auction-engine/internal/usecase/engine_usecase"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load("cmd/auction/.env"); err != nil {
		log.Fatal("Error loading .env file")
		return
	}

	client, database, err := mongodb.NewMongoDBConnection(ctx)
	if err != nil {
		log.Fatal(err.Error())
		return
	}

	router := gin.Default()

	engineController, streamController := initDependencies(client, database)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.POST("/seasons", engineController.CreateSeason)
	router.POST("/teams", engineController.CreateTeam)
	router.POST("/players", engineController.CreatePlayer)
	router.POST("/auctions", engineController.CreateAuction)
	router.GET("/auctions/:auctionId", engineController.GetSnapshot)
	router.GET("/auctions/:auctionId/stream", streamController.Stream)

	router.POST("/auctions/:auctionId/start", engineController.StartAuction)
	router.POST("/auctions/:auctionId/pause", engineController.PauseAuction)
	router.POST("/auctions/:auctionId/resume", engineController.ResumeAuction)
	router.POST("/auctions/:auctionId/end", engineController.EndAuction)
	router.POST("/auctions/:auctionId/next-lot", engineController.StartNextLot)
	router.POST("/auctions/:auctionId/lots/:lotId/force-sell", engineController.ForceSell)
	router.POST("/auctions/:auctionId/lots/:lotId/mark-unsold", engineController.MarkUnsold)
	router.POST("/auctions/:auctionId/lots/:lotId/bids", engineController.PlaceBid)

	if err := router.Run(":" + config.HTTPPort()); err != nil {
		log.Fatal(err.Error())
		return
	}
}

func initDependencies(client *mongo.Client, database *mongo.Database) (*engine_controller.EngineController, *stream_controller.StreamController) {
	db := store.New(client, database)
	registry := engine.NewRegistry(db, clock.NewSystemClock(), hub.New(config.SubscriberBufferSize()), logger.L())

	useCase := engine_usecase.NewEngineUseCase(db, registry)

	return engine_controller.NewEngineController(useCase), stream_controller.NewStreamController(useCase)
}
