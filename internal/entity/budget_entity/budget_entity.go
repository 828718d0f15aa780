// Package budget_entity defines the BudgetTransaction ledger: a concrete
// backing table for the invariant that a team's budget_spent always equals
// the sum of its roster acquisition prices, supplementing the bare
// Team.BudgetSpent counter with an auditable history.
package budget_entity

import (
	"context"
	"time"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

// Reason distinguishes how budget_spent moved.
type Reason string

const (
	ReasonLotSold     Reason = "lot_sold"
	ReasonAdminRefund Reason = "admin_refund"
)

type BudgetTransaction struct {
	Id        string    `json:"id"`
	TeamId    string    `json:"team_id"`
	AuctionId string    `json:"auction_id"`
	LotId     string    `json:"lot_id,omitempty"`
	Amount    int64     `json:"amount"`
	Reason    Reason    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

type BudgetTransactionRepositoryInterface interface {
	CreateBudgetTransaction(ctx context.Context, tx *BudgetTransaction) *internal_error.InternalError
	FindByTeamId(ctx context.Context, teamId string) ([]BudgetTransaction, *internal_error.InternalError)
}

func NewBudgetTransaction(teamId, auctionId, lotId string, amount int64, reason Reason, now time.Time) *BudgetTransaction {
	return &BudgetTransaction{
		Id:        uuid.New().String(),
		TeamId:    teamId,
		AuctionId: auctionId,
		LotId:     lotId,
		Amount:    amount,
		Reason:    reason,
		Timestamp: now,
	}
}
