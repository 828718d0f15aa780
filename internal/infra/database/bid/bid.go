// Package bid persists bid_entity.Bid in MongoDB.
package bid

import (
	"context"
	"time"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/bid_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BidEntityMongo struct {
	Id       string `bson:"_id"`
	LotId    string `bson:"lot_id"`
	TeamId   string `bson:"team_id"`
	Amount   int64  `bson:"amount"`
	PlacedAt int64  `bson:"placed_at"`
	Valid    bool   `bson:"valid"`
}

type BidRepository struct {
	Collection *mongo.Collection
}

func NewBidRepository(database *mongo.Database) *BidRepository {
	return &BidRepository{Collection: database.Collection("bids")}
}

func toMongo(b *bid_entity.Bid) *BidEntityMongo {
	return &BidEntityMongo{
		Id:       b.Id,
		LotId:    b.LotId,
		TeamId:   b.TeamId,
		Amount:   b.Amount,
		PlacedAt: b.PlacedAt.UnixMilli(),
		Valid:    b.Valid,
	}
}

func fromMongo(m *BidEntityMongo) *bid_entity.Bid {
	return &bid_entity.Bid{
		Id:       m.Id,
		LotId:    m.LotId,
		TeamId:   m.TeamId,
		Amount:   m.Amount,
		PlacedAt: time.UnixMilli(m.PlacedAt),
		Valid:    m.Valid,
	}
}

func (r *BidRepository) CreateBid(ctx context.Context, bid *bid_entity.Bid) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(bid)); err != nil {
		logger.Error("error trying to create bid", err)
		return internal_error.NewInternalServerError("error trying to create bid")
	}
	return nil
}

func (r *BidRepository) FindBidsByLotId(ctx context.Context, lotId string) ([]bid_entity.Bid, *internal_error.InternalError) {
	cursor, err := r.Collection.Find(ctx, bson.M{"lot_id": lotId})
	if err != nil {
		logger.Error("error trying to find bids by lot id", err)
		return nil, internal_error.NewInternalServerError("error trying to find bids")
	}
	defer cursor.Close(ctx)

	var rows []BidEntityMongo
	if err := cursor.All(ctx, &rows); err != nil {
		logger.Error("error trying to decode bids", err)
		return nil, internal_error.NewInternalServerError("error trying to decode bids")
	}

	bids := make([]bid_entity.Bid, 0, len(rows))
	for i := range rows {
		bids = append(bids, *fromMongo(&rows[i]))
	}
	return bids, nil
}

func (r *BidRepository) FindHighestValidBid(ctx context.Context, lotId string) (*bid_entity.Bid, *internal_error.InternalError) {
	opts := options.FindOne().SetSort(bson.D{{Key: "amount", Value: -1}})
	var m BidEntityMongo
	err := r.Collection.FindOne(ctx, bson.M{"lot_id": lotId, "valid": true}, opts).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		logger.Error("error trying to find highest valid bid", err)
		return nil, internal_error.NewInternalServerError("error trying to find highest valid bid")
	}
	return fromMongo(&m), nil
}
