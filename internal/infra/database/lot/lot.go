// Package lot persists lot_entity.Lot in MongoDB.
package lot

import (
	"context"
	"fmt"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LotEntityMongo struct {
	Id             string  `bson:"_id"`
	AuctionId      string  `bson:"auction_id"`
	PlayerId       string  `bson:"player_id"`
	Order          int     `bson:"order"`
	Status         string  `bson:"status"`
	CurrentPrice   *int64  `bson:"current_price,omitempty"`
	EndsAtUnixMs   *int64  `bson:"ends_at_unix_ms,omitempty"`
	RemainingMs    *int64  `bson:"remaining_ms,omitempty"`
	ExtensionsUsed int     `bson:"extensions_used"`
	WinnerTeamId   *string `bson:"winner_team_id,omitempty"`
	FinalPrice     *int64  `bson:"final_price,omitempty"`
}

type LotRepository struct {
	Collection *mongo.Collection
}

func NewLotRepository(database *mongo.Database) *LotRepository {
	return &LotRepository{Collection: database.Collection("lots")}
}

func toMongo(l *lot_entity.Lot) *LotEntityMongo {
	return &LotEntityMongo{
		Id:             l.Id,
		AuctionId:      l.AuctionId,
		PlayerId:       l.PlayerId,
		Order:          l.Order,
		Status:         string(l.Status),
		CurrentPrice:   l.CurrentPrice,
		EndsAtUnixMs:   l.EndsAtUnixMs,
		RemainingMs:    l.RemainingMs,
		ExtensionsUsed: l.ExtensionsUsed,
		WinnerTeamId:   l.WinnerTeamId,
		FinalPrice:     l.FinalPrice,
	}
}

func fromMongo(m *LotEntityMongo) *lot_entity.Lot {
	return &lot_entity.Lot{
		Id:             m.Id,
		AuctionId:      m.AuctionId,
		PlayerId:       m.PlayerId,
		Order:          m.Order,
		Status:         lot_entity.Status(m.Status),
		CurrentPrice:   m.CurrentPrice,
		EndsAtUnixMs:   m.EndsAtUnixMs,
		RemainingMs:    m.RemainingMs,
		ExtensionsUsed: m.ExtensionsUsed,
		WinnerTeamId:   m.WinnerTeamId,
		FinalPrice:     m.FinalPrice,
	}
}

func (r *LotRepository) CreateLot(ctx context.Context, lot *lot_entity.Lot) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(lot)); err != nil {
		logger.Error("error trying to create lot", err)
		return internal_error.NewInternalServerError("error trying to create lot")
	}
	return nil
}

func (r *LotRepository) FindLotById(ctx context.Context, id string) (*lot_entity.Lot, *internal_error.InternalError) {
	var m LotEntityMongo
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		logger.Error(fmt.Sprintf("error trying to find lot by id %s", id), err)
		return nil, internal_error.NewLotNotFoundError(fmt.Sprintf("lot not found with id %s", id))
	}
	return fromMongo(&m), nil
}

func (r *LotRepository) FindLotsByAuctionId(ctx context.Context, auctionId string) ([]lot_entity.Lot, *internal_error.InternalError) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"auction_id": auctionId}, opts)
	if err != nil {
		logger.Error("error trying to find lots by auction id", err)
		return nil, internal_error.NewInternalServerError("error trying to find lots")
	}
	defer cursor.Close(ctx)

	var rows []LotEntityMongo
	if err := cursor.All(ctx, &rows); err != nil {
		logger.Error("error trying to decode lots", err)
		return nil, internal_error.NewInternalServerError("error trying to decode lots")
	}

	lots := make([]lot_entity.Lot, 0, len(rows))
	for i := range rows {
		lots = append(lots, *fromMongo(&rows[i]))
	}
	return lots, nil
}

func (r *LotRepository) FindNextQueuedLot(ctx context.Context, auctionId string) (*lot_entity.Lot, *internal_error.InternalError) {
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: 1}})
	var m LotEntityMongo
	err := r.Collection.FindOne(ctx, bson.M{
		"auction_id": auctionId,
		"status":     string(lot_entity.Queued),
	}, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logger.Error("error trying to find next queued lot", err)
		return nil, internal_error.NewInternalServerError("error trying to find next queued lot")
	}
	return fromMongo(&m), nil
}

func (r *LotRepository) UpdateLot(ctx context.Context, lot *lot_entity.Lot) *internal_error.InternalError {
	_, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": lot.Id}, toMongo(lot))
	if err != nil {
		logger.Error("error trying to update lot", err)
		return internal_error.NewInternalServerError("error trying to update lot")
	}
	return nil
}
