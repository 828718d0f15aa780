// Package roster persists roster_entity.RosterEntry in MongoDB.
package roster

import (
	"context"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/entity/roster_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type RosterEntryMongo struct {
	Id       string `bson:"_id"`
	TeamId   string `bson:"team_id"`
	PlayerId string `bson:"player_id"`
	Price    int64  `bson:"price"`
}

// RosterRepository joins against the player collection for the role and
// overseas counts bid admission needs for its feasibility checks;
// a RosterEntry alone only knows a player id.
type RosterRepository struct {
	Collection       *mongo.Collection
	PlayerCollection *mongo.Collection
}

func NewRosterRepository(database *mongo.Database) *RosterRepository {
	return &RosterRepository{
		Collection:       database.Collection("roster_entries"),
		PlayerCollection: database.Collection("players"),
	}
}

func toMongo(e *roster_entity.RosterEntry) *RosterEntryMongo {
	return &RosterEntryMongo{Id: e.Id, TeamId: e.TeamId, PlayerId: e.PlayerId, Price: e.Price}
}

func fromMongo(m *RosterEntryMongo) *roster_entity.RosterEntry {
	return &roster_entity.RosterEntry{Id: m.Id, TeamId: m.TeamId, PlayerId: m.PlayerId, Price: m.Price}
}

func (r *RosterRepository) CreateRosterEntry(ctx context.Context, entry *roster_entity.RosterEntry) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(entry)); err != nil {
		logger.Error("error trying to create roster entry", err)
		return internal_error.NewInternalServerError("error trying to create roster entry")
	}
	return nil
}

func (r *RosterRepository) FindRosterByTeamId(ctx context.Context, teamId string) ([]roster_entity.RosterEntry, *internal_error.InternalError) {
	cursor, err := r.Collection.Find(ctx, bson.M{"team_id": teamId})
	if err != nil {
		logger.Error("error trying to find roster by team id", err)
		return nil, internal_error.NewInternalServerError("error trying to find roster entries")
	}
	defer cursor.Close(ctx)

	var rows []RosterEntryMongo
	if err := cursor.All(ctx, &rows); err != nil {
		logger.Error("error trying to decode roster entries", err)
		return nil, internal_error.NewInternalServerError("error trying to decode roster entries")
	}

	entries := make([]roster_entity.RosterEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, *fromMongo(&rows[i]))
	}
	return entries, nil
}

func (r *RosterRepository) CountByTeamId(ctx context.Context, teamId string) (int, *internal_error.InternalError) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{"team_id": teamId})
	if err != nil {
		logger.Error("error trying to count roster entries", err)
		return 0, internal_error.NewInternalServerError("error trying to count roster entries")
	}
	return int(count), nil
}

func (r *RosterRepository) CountOverseasByTeamId(ctx context.Context, teamId string) (int, *internal_error.InternalError) {
	return r.countByPlayerFilter(ctx, teamId, bson.M{"is_overseas": true})
}

func (r *RosterRepository) CountByTeamAndRole(ctx context.Context, teamId string, role player_entity.Role) (int, *internal_error.InternalError) {
	return r.countByPlayerFilter(ctx, teamId, bson.M{"role": string(role)})
}

func (r *RosterRepository) countByPlayerFilter(ctx context.Context, teamId string, playerFilter bson.M) (int, *internal_error.InternalError) {
	matchingIds, err := r.PlayerCollection.Distinct(ctx, "_id", playerFilter)
	if err != nil {
		logger.Error("error trying to filter players for roster count", err)
		return 0, internal_error.NewInternalServerError("error trying to filter players")
	}
	count, err2 := r.Collection.CountDocuments(ctx, bson.M{
		"team_id":   teamId,
		"player_id": bson.M{"$in": matchingIds},
	})
	if err2 != nil {
		logger.Error("error trying to count roster entries by player filter", err2)
		return 0, internal_error.NewInternalServerError("error trying to count roster entries")
	}
	return int(count), nil
}
