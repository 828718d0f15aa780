// Package player persists player_entity.Player in MongoDB.
package player

import (
	"context"
	"fmt"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PlayerEntityMongo struct {
	Id         string `bson:"_id"`
	SeasonId   string `bson:"season_id"`
	Name       string `bson:"name"`
	Role       string `bson:"role"`
	IsOverseas bool   `bson:"is_overseas"`
	BasePrice  int64  `bson:"base_price"`
}

type PlayerRepository struct {
	Collection *mongo.Collection
}

func NewPlayerRepository(database *mongo.Database) *PlayerRepository {
	return &PlayerRepository{Collection: database.Collection("players")}
}

func toMongo(p *player_entity.Player) *PlayerEntityMongo {
	return &PlayerEntityMongo{
		Id:         p.Id,
		SeasonId:   p.SeasonId,
		Name:       p.Name,
		Role:       string(p.Role),
		IsOverseas: p.IsOverseas,
		BasePrice:  p.BasePrice,
	}
}

func fromMongo(m *PlayerEntityMongo) *player_entity.Player {
	return &player_entity.Player{
		Id:         m.Id,
		SeasonId:   m.SeasonId,
		Name:       m.Name,
		Role:       player_entity.Role(m.Role),
		IsOverseas: m.IsOverseas,
		BasePrice:  m.BasePrice,
	}
}

func (r *PlayerRepository) CreatePlayer(ctx context.Context, player *player_entity.Player) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(player)); err != nil {
		logger.Error("error trying to create player", err)
		return internal_error.NewInternalServerError("error trying to create player")
	}
	return nil
}

func (r *PlayerRepository) FindPlayerById(ctx context.Context, id string) (*player_entity.Player, *internal_error.InternalError) {
	var m PlayerEntityMongo
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		logger.Error(fmt.Sprintf("error trying to find player by id %s", id), err)
		return nil, internal_error.NewNotFoundError(fmt.Sprintf("player not found with id %s", id))
	}
	return fromMongo(&m), nil
}
