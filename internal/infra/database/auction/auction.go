// Package auction persists auction_entity.Auction in MongoDB.
package auction

import (
	"context"
	"fmt"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type IncrementBandMongo struct {
	Min  int64 `bson:"min"`
	Max  int64 `bson:"max"`
	Step int64 `bson:"step"`
}

type SettingsMongo struct {
	LotDurationMs        int                  `bson:"lot_duration_ms"`
	SoftCloseThresholdMs int                  `bson:"soft_close_threshold_ms"`
	SoftCloseExtensionMs int                  `bson:"soft_close_extension_ms"`
	MaxExtensions        int                  `bson:"max_extensions"`
	InterLotGapMs        int                  `bson:"inter_lot_gap_ms"`
	IncrementBands       []IncrementBandMongo `bson:"increment_bands"`
	IncrementMode        string               `bson:"increment_mode"`
	FlatIncrement        int64                `bson:"flat_increment"`
}

type AuctionEntityMongo struct {
	Id           string        `bson:"_id"`
	SeasonId     string        `bson:"season_id"`
	Status       string        `bson:"status"`
	CurrentLotId *string       `bson:"current_lot_id,omitempty"`
	Settings     SettingsMongo `bson:"settings"`
}

type AuctionRepository struct {
	Collection *mongo.Collection
}

func NewAuctionRepository(database *mongo.Database) *AuctionRepository {
	return &AuctionRepository{Collection: database.Collection("auctions")}
}

func settingsToMongo(s auction_entity.Settings) SettingsMongo {
	bands := make([]IncrementBandMongo, 0, len(s.IncrementBands))
	for _, b := range s.IncrementBands {
		bands = append(bands, IncrementBandMongo{Min: b.Min, Max: b.Max, Step: b.Step})
	}
	return SettingsMongo{
		LotDurationMs:        s.LotDurationMs,
		SoftCloseThresholdMs: s.SoftCloseThresholdMs,
		SoftCloseExtensionMs: s.SoftCloseExtensionMs,
		MaxExtensions:        s.MaxExtensions,
		InterLotGapMs:        s.InterLotGapMs,
		IncrementBands:       bands,
		IncrementMode:        string(s.IncrementMode),
		FlatIncrement:        s.FlatIncrement,
	}
}

func settingsFromMongo(m SettingsMongo) auction_entity.Settings {
	bands := make([]auction_entity.IncrementBand, 0, len(m.IncrementBands))
	for _, b := range m.IncrementBands {
		bands = append(bands, auction_entity.IncrementBand{Min: b.Min, Max: b.Max, Step: b.Step})
	}
	return auction_entity.Settings{
		LotDurationMs:        m.LotDurationMs,
		SoftCloseThresholdMs: m.SoftCloseThresholdMs,
		SoftCloseExtensionMs: m.SoftCloseExtensionMs,
		MaxExtensions:        m.MaxExtensions,
		InterLotGapMs:        m.InterLotGapMs,
		IncrementBands:       bands,
		IncrementMode:        auction_entity.IncrementMode(m.IncrementMode),
		FlatIncrement:        m.FlatIncrement,
	}
}

func toMongo(a *auction_entity.Auction) *AuctionEntityMongo {
	return &AuctionEntityMongo{
		Id:           a.Id,
		SeasonId:     a.SeasonId,
		Status:       string(a.Status),
		CurrentLotId: a.CurrentLotId,
		Settings:     settingsToMongo(a.Settings),
	}
}

func fromMongo(m *AuctionEntityMongo) *auction_entity.Auction {
	return &auction_entity.Auction{
		Id:           m.Id,
		SeasonId:     m.SeasonId,
		Status:       auction_entity.Status(m.Status),
		CurrentLotId: m.CurrentLotId,
		Settings:     settingsFromMongo(m.Settings),
	}
}

func (r *AuctionRepository) CreateAuction(ctx context.Context, a *auction_entity.Auction) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(a)); err != nil {
		logger.Error("error trying to create auction", err)
		return internal_error.NewInternalServerError("error trying to create auction")
	}
	return nil
}

func (r *AuctionRepository) FindAuctionById(ctx context.Context, id string) (*auction_entity.Auction, *internal_error.InternalError) {
	var m AuctionEntityMongo
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		logger.Error(fmt.Sprintf("error trying to find auction by id %s", id), err)
		return nil, internal_error.NewAuctionNotFoundError(fmt.Sprintf("auction not found with id %s", id))
	}
	return fromMongo(&m), nil
}

func (r *AuctionRepository) FindAllAuctions(ctx context.Context, status auction_entity.Status, seasonId string) ([]auction_entity.Auction, *internal_error.InternalError) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = string(status)
	}
	if seasonId != "" {
		filter["season_id"] = seasonId
	}

	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		logger.Error("error trying to find auctions", err)
		return nil, internal_error.NewInternalServerError("error trying to find auctions")
	}
	defer cursor.Close(ctx)

	var rows []AuctionEntityMongo
	if err := cursor.All(ctx, &rows); err != nil {
		logger.Error("error trying to decode auctions", err)
		return nil, internal_error.NewInternalServerError("error trying to decode auctions")
	}

	auctions := make([]auction_entity.Auction, 0, len(rows))
	for i := range rows {
		auctions = append(auctions, *fromMongo(&rows[i]))
	}
	return auctions, nil
}

func (r *AuctionRepository) UpdateAuctionState(ctx context.Context, id string, status auction_entity.Status, currentLotId *string) *internal_error.InternalError {
	update := bson.M{"$set": bson.M{
		"status":         string(status),
		"current_lot_id": currentLotId,
	}}
	if _, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.Error("error trying to update auction state", err)
		return internal_error.NewInternalServerError("error trying to update auction state")
	}
	return nil
}
