// Package lot_entity defines the Lot aggregate: one player offered at one
// moment, with the countdown/soft-close state the Lot Controller mutates
// while the lot is active.
package lot_entity

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

// Status is the lot lifecycle:
// QUEUED -> IN_PROGRESS <-> PAUSED -> {SOLD, UNSOLD}.
type Status string

const (
	Queued     Status = "QUEUED"
	InProgress Status = "IN_PROGRESS"
	Paused     Status = "PAUSED"
	Sold       Status = "SOLD"
	Unsold     Status = "UNSOLD"
)

// Terminal reports whether the lot can no longer change status.
func (s Status) Terminal() bool {
	return s == Sold || s == Unsold
}

// Lot is identity, its immutable order within the auction, and the mutable
// fields the Lot Controller owns while IN_PROGRESS: CurrentPrice, EndsAt
// (nil while paused; remaining time lives in RemainingMs instead),
// ExtensionsUsed, and the terminal WinnerTeamId/FinalPrice pair.
type Lot struct {
	Id             string  `json:"id"`
	AuctionId      string  `json:"auction_id"`
	PlayerId       string  `json:"player_id"`
	Order          int     `json:"order"`
	Status         Status  `json:"status"`
	CurrentPrice   *int64  `json:"current_price,omitempty"`
	EndsAtUnixMs   *int64  `json:"ends_at_unix_ms,omitempty"`
	RemainingMs    *int64  `json:"remaining_ms,omitempty"`
	ExtensionsUsed int     `json:"extensions_used"`
	WinnerTeamId   *string `json:"winner_team_id,omitempty"`
	FinalPrice     *int64  `json:"final_price,omitempty"`
}

type LotRepositoryInterface interface {
	CreateLot(ctx context.Context, lot *Lot) *internal_error.InternalError
	FindLotById(ctx context.Context, id string) (*Lot, *internal_error.InternalError)
	FindLotsByAuctionId(ctx context.Context, auctionId string) ([]Lot, *internal_error.InternalError)
	// FindNextQueuedLot returns the smallest-Order QUEUED lot, or nil if
	// none remain.
	FindNextQueuedLot(ctx context.Context, auctionId string) (*Lot, *internal_error.InternalError)
	// UpdateLot persists the full mutable lot row; at finalization time the
	// engine calls this inside the same transaction as the roster/budget
	// writes, and appends the finalization event after that transaction.
	UpdateLot(ctx context.Context, lot *Lot) *internal_error.InternalError
}

func CreateLot(auctionId, playerId string, order int) (*Lot, *internal_error.InternalError) {
	lot := &Lot{
		Id:        uuid.New().String(),
		AuctionId: auctionId,
		PlayerId:  playerId,
		Order:     order,
		Status:    Queued,
	}
	if err := lot.Validate(); err != nil {
		return nil, err
	}
	return lot, nil
}

func (l *Lot) Validate() *internal_error.InternalError {
	if err := uuid.Validate(l.AuctionId); err != nil {
		return internal_error.NewInvalidInputError("auction id is not a valid id")
	}
	if err := uuid.Validate(l.PlayerId); err != nil {
		return internal_error.NewInvalidInputError("player id is not a valid id")
	}
	if l.Order < 0 {
		return internal_error.NewInvalidInputError("order cannot be negative")
	}
	return nil
}

var legalTransitions = map[Status]map[Status]bool{
	Queued:     {InProgress: true},
	InProgress: {Paused: true, Sold: true, Unsold: true},
	Paused:     {InProgress: true, Sold: true, Unsold: true},
	Sold:       {},
	Unsold:     {},
}

func (l *Lot) CanTransitionTo(next Status) bool {
	allowed, ok := legalTransitions[l.Status]
	return ok && allowed[next]
}
