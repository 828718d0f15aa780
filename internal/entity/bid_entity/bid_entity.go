// Package bid_entity defines the Bid aggregate. Money is a non-negative
// integer in the smallest indivisible unit, never a float.
package bid_entity

import (
	"context"
	"time"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

type Bid struct {
	Id       string    `json:"id"`
	LotId    string    `json:"lot_id"`
	TeamId   string    `json:"team_id"`
	Amount   int64     `json:"amount"`
	PlacedAt time.Time `json:"placed_at"`
	Valid    bool      `json:"valid"`
}

type BidEntityRepository interface {
	CreateBid(ctx context.Context, bid *Bid) *internal_error.InternalError
	FindBidsByLotId(ctx context.Context, lotId string) ([]Bid, *internal_error.InternalError)
	// FindHighestValidBid returns the current leader for a lot, or nil if
	// no valid bid has been placed yet.
	FindHighestValidBid(ctx context.Context, lotId string) (*Bid, *internal_error.InternalError)
}

func CreateBid(lotId, teamId string, amount int64, placedAt time.Time) (*Bid, *internal_error.InternalError) {
	bid := &Bid{
		Id:       uuid.New().String(),
		LotId:    lotId,
		TeamId:   teamId,
		Amount:   amount,
		PlacedAt: placedAt,
		Valid:    true,
	}
	if err := bid.Validate(); err != nil {
		return nil, err
	}
	return bid, nil
}

func (b *Bid) Validate() *internal_error.InternalError {
	if err := uuid.Validate(b.LotId); err != nil {
		return internal_error.NewInvalidInputError("lot id is not a valid id")
	}
	if err := uuid.Validate(b.TeamId); err != nil {
		return internal_error.NewInvalidInputError("team id is not a valid id")
	}
	if b.Amount <= 0 {
		return internal_error.NewInvalidInputError("amount must be greater than 0")
	}
	return nil
}
