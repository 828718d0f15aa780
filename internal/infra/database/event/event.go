// Package event persists the append-only event_entity.Event log in
// MongoDB. NewEventRepository ensures a unique index over (auction_id,
// sequence) so a sequence allocation collision fails loudly instead of
// silently overwriting a prior event.
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/event_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventEntityMongo struct {
	Id        string `bson:"_id"`
	AuctionId string `bson:"auction_id"`
	Sequence  int64  `bson:"sequence"`
	Type      string `bson:"type"`
	Payload   []byte `bson:"payload"`
	Timestamp int64  `bson:"timestamp"`
}

type EventRepository struct {
	Collection *mongo.Collection
}

func NewEventRepository(database *mongo.Database) *EventRepository {
	collection := database.Collection("events")

	_, err := collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "auction_id", Value: 1}, {Key: "sequence", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Error("error trying to create events sequence index", err)
	}

	return &EventRepository{Collection: collection}
}

func toMongo(e *event_entity.Event) *EventEntityMongo {
	return &EventEntityMongo{
		Id:        e.Id,
		AuctionId: e.AuctionId,
		Sequence:  e.Sequence,
		Type:      string(e.Type),
		Payload:   []byte(e.Payload),
		Timestamp: e.Timestamp.UnixMilli(),
	}
}

func fromMongo(m *EventEntityMongo) event_entity.Event {
	return event_entity.Event{
		Id:        m.Id,
		AuctionId: m.AuctionId,
		Sequence:  m.Sequence,
		Type:      event_entity.Type(m.Type),
		Payload:   m.Payload,
		Timestamp: time.UnixMilli(m.Timestamp),
	}
}

func (r *EventRepository) AppendEvent(ctx context.Context, event *event_entity.Event) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(event)); err != nil {
		logger.Error(fmt.Sprintf("error trying to append event for auction %s", event.AuctionId), err)
		return internal_error.NewInternalServerError("error trying to append event")
	}
	return nil
}

func (r *EventRepository) FindEventsSince(ctx context.Context, auctionId string, fromSequence int64) ([]event_entity.Event, *internal_error.InternalError) {
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{
		"auction_id": auctionId,
		"sequence":   bson.M{"$gt": fromSequence},
	}, opts)
	if err != nil {
		logger.Error("error trying to find events since sequence", err)
		return nil, internal_error.NewInternalServerError("error trying to find events")
	}
	defer cursor.Close(ctx)

	var rows []EventEntityMongo
	if err := cursor.All(ctx, &rows); err != nil {
		logger.Error("error trying to decode events", err)
		return nil, internal_error.NewInternalServerError("error trying to decode events")
	}

	events := make([]event_entity.Event, 0, len(rows))
	for i := range rows {
		events = append(events, fromMongo(&rows[i]))
	}
	return events, nil
}

func (r *EventRepository) FindLatestSequence(ctx context.Context, auctionId string) (int64, *internal_error.InternalError) {
	opts := options.FindOne().SetSort(bson.D{{Key: "sequence", Value: -1}})
	var m EventEntityMongo
	err := r.Collection.FindOne(ctx, bson.M{"auction_id": auctionId}, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		logger.Error("error trying to find latest event sequence", err)
		return 0, internal_error.NewInternalServerError("error trying to find latest sequence")
	}
	return m.Sequence, nil
}
