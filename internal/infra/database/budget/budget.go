// Package budget persists budget_entity.BudgetTransaction in MongoDB: the
// auditable ledger backing each team's budget_spent counter.
package budget

import (
	"context"
	"time"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/budget_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type BudgetTransactionMongo struct {
	Id        string `bson:"_id"`
	TeamId    string `bson:"team_id"`
	AuctionId string `bson:"auction_id"`
	LotId     string `bson:"lot_id,omitempty"`
	Amount    int64  `bson:"amount"`
	Reason    string `bson:"reason"`
	Timestamp int64  `bson:"timestamp"`
}

type BudgetTransactionRepository struct {
	Collection *mongo.Collection
}

func NewBudgetTransactionRepository(database *mongo.Database) *BudgetTransactionRepository {
	return &BudgetTransactionRepository{Collection: database.Collection("budget_transactions")}
}

func toMongo(t *budget_entity.BudgetTransaction) *BudgetTransactionMongo {
	return &BudgetTransactionMongo{
		Id:        t.Id,
		TeamId:    t.TeamId,
		AuctionId: t.AuctionId,
		LotId:     t.LotId,
		Amount:    t.Amount,
		Reason:    string(t.Reason),
		Timestamp: t.Timestamp.UnixMilli(),
	}
}

func fromMongo(m *BudgetTransactionMongo) budget_entity.BudgetTransaction {
	return budget_entity.BudgetTransaction{
		Id:        m.Id,
		TeamId:    m.TeamId,
		AuctionId: m.AuctionId,
		LotId:     m.LotId,
		Amount:    m.Amount,
		Reason:    budget_entity.Reason(m.Reason),
		Timestamp: time.UnixMilli(m.Timestamp),
	}
}

func (r *BudgetTransactionRepository) CreateBudgetTransaction(ctx context.Context, tx *budget_entity.BudgetTransaction) *internal_error.InternalError {
	if _, err := r.Collection.InsertOne(ctx, toMongo(tx)); err != nil {
		logger.Error("error trying to create budget transaction", err)
		return internal_error.NewInternalServerError("error trying to create budget transaction")
	}
	return nil
}

func (r *BudgetTransactionRepository) FindByTeamId(ctx context.Context, teamId string) ([]budget_entity.BudgetTransaction, *internal_error.InternalError) {
	cursor, err := r.Collection.Find(ctx, bson.M{"team_id": teamId})
	if err != nil {
		logger.Error("error trying to find budget transactions by team id", err)
		return nil, internal_error.NewInternalServerError("error trying to find budget transactions")
	}
	defer cursor.Close(ctx)

	var rows []BudgetTransactionMongo
	if err := cursor.All(ctx, &rows); err != nil {
		logger.Error("error trying to decode budget transactions", err)
		return nil, internal_error.NewInternalServerError("error trying to decode budget transactions")
	}

	txs := make([]budget_entity.BudgetTransaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, fromMongo(&rows[i]))
	}
	return txs, nil
}
