// Package season persists season_entity.Season in MongoDB.
package season

import (
	"context"
	"fmt"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/season_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SeasonEntityMongo struct {
	Id               string `bson:"_id"`
	Name             string `bson:"name"`
	MaxSquadSize     int    `bson:"max_squad_size"`
	MaxOverseas      int    `bson:"max_overseas"`
	MinWicketKeepers int    `bson:"min_wicket_keepers"`
	StartingBudget   int64  `bson:"starting_budget"`
}

type SeasonRepository struct {
	Collection *mongo.Collection
}

func NewSeasonRepository(database *mongo.Database) *SeasonRepository {
	return &SeasonRepository{Collection: database.Collection("seasons")}
}

func toMongo(s *season_entity.Season) *SeasonEntityMongo {
	return &SeasonEntityMongo{
		Id:               s.Id,
		Name:             s.Name,
		MaxSquadSize:     s.Rules.MaxSquadSize,
		MaxOverseas:      s.Rules.MaxOverseas,
		MinWicketKeepers: s.Rules.MinWicketKeepers,
		StartingBudget:   s.StartingBudget,
	}
}

func fromMongo(m *SeasonEntityMongo) *season_entity.Season {
	return &season_entity.Season{
		Id:   m.Id,
		Name: m.Name,
		Rules: season_entity.RosterRules{
			MaxSquadSize:     m.MaxSquadSize,
			MaxOverseas:      m.MaxOverseas,
			MinWicketKeepers: m.MinWicketKeepers,
		},
		StartingBudget: m.StartingBudget,
	}
}

func (r *SeasonRepository) CreateSeason(ctx context.Context, season *season_entity.Season) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(season)); err != nil {
		logger.Error("error trying to create season", err)
		return internal_error.NewInternalServerError("error trying to create season")
	}
	return nil
}

func (r *SeasonRepository) FindSeasonById(ctx context.Context, id string) (*season_entity.Season, *internal_error.InternalError) {
	var m SeasonEntityMongo
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		logger.Error(fmt.Sprintf("error trying to find season by id %s", id), err)
		return nil, internal_error.NewNotFoundError(fmt.Sprintf("season not found with id %s", id))
	}
	return fromMongo(&m), nil
}
