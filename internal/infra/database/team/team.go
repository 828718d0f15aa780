// Package team persists team_entity.Team in MongoDB.
package team

import (
	"context"
	"fmt"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/team_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type TeamEntityMongo struct {
	Id          string `bson:"_id"`
	SeasonId    string `bson:"season_id"`
	Name        string `bson:"name"`
	BudgetTotal int64  `bson:"budget_total"`
	BudgetSpent int64  `bson:"budget_spent"`
}

type TeamRepository struct {
	Collection *mongo.Collection
}

func NewTeamRepository(database *mongo.Database) *TeamRepository {
	return &TeamRepository{Collection: database.Collection("teams")}
}

func toMongo(t *team_entity.Team) *TeamEntityMongo {
	return &TeamEntityMongo{
		Id:          t.Id,
		SeasonId:    t.SeasonId,
		Name:        t.Name,
		BudgetTotal: t.BudgetTotal,
		BudgetSpent: t.BudgetSpent,
	}
}

func fromMongo(m *TeamEntityMongo) *team_entity.Team {
	return &team_entity.Team{
		Id:          m.Id,
		SeasonId:    m.SeasonId,
		Name:        m.Name,
		BudgetTotal: m.BudgetTotal,
		BudgetSpent: m.BudgetSpent,
	}
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *team_entity.Team) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(team)); err != nil {
		logger.Error("error trying to create team", err)
		return internal_error.NewInternalServerError("error trying to create team")
	}
	return nil
}

func (r *TeamRepository) FindTeamById(ctx context.Context, id string) (*team_entity.Team, *internal_error.InternalError) {
	var m TeamEntityMongo
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		logger.Error(fmt.Sprintf("error trying to find team by id %s", id), err)
		return nil, internal_error.NewNotFoundError(fmt.Sprintf("team not found with id %s", id))
	}
	return fromMongo(&m), nil
}

func (r *TeamRepository) FindTeamsBySeasonId(ctx context.Context, seasonId string) ([]team_entity.Team, *internal_error.InternalError) {
	cursor, err := r.Collection.Find(ctx, bson.M{"season_id": seasonId})
	if err != nil {
		logger.Error("error trying to find teams by season id", err)
		return nil, internal_error.NewInternalServerError("error trying to find teams")
	}
	defer cursor.Close(ctx)

	var rows []TeamEntityMongo
	if err := cursor.All(ctx, &rows); err != nil {
		logger.Error("error trying to decode teams", err)
		return nil, internal_error.NewInternalServerError("error trying to decode teams")
	}

	teams := make([]team_entity.Team, 0, len(rows))
	for i := range rows {
		teams = append(teams, *fromMongo(&rows[i]))
	}
	return teams, nil
}

// ApplyBudgetDelta is a conditional update: it only applies when the
// resulting budget_spent would stay within [0, budget_total], so the
// invariant holds even under concurrent writers racing on the same team.
func (r *TeamRepository) ApplyBudgetDelta(ctx context.Context, teamId string, delta int64) *internal_error.InternalError {
	filter := bson.M{"_id": teamId}
	if delta > 0 {
		filter["$expr"] = bson.M{"$lte": []any{
			bson.M{"$add": []any{"$budget_spent", delta}},
			"$budget_total",
		}}
	} else {
		filter["$expr"] = bson.M{"$gte": []any{
			bson.M{"$add": []any{"$budget_spent", delta}},
			0,
		}}
	}

	update := bson.M{"$inc": bson.M{"budget_spent": delta}}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Error("error trying to apply budget delta", err)
		return internal_error.NewInternalServerError("error trying to apply budget delta")
	}
	if result.MatchedCount == 0 {
		return internal_error.NewInsufficientBudgetError("budget delta would violate team budget bounds", 0)
	}
	return nil
}
