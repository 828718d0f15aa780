// Package event_entity defines the append-only Event Log: the
// single source of truth for subscribers' incremental view and for
// post-mortem reconstruction.
package event_entity

import (
	"encoding/json"
	"time"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

// Type is the tagged-sum-type discriminator, replacing
// "opaque JSON in a column" with a typed value in memory.
type Type string

const (
	AuctionStarted Type = "AUCTION_STARTED"
	AuctionPaused  Type = "AUCTION_PAUSED"
	AuctionResumed Type = "AUCTION_RESUMED"
	LotStarted     Type = "LOT_STARTED"
	BidPlaced      Type = "BID_PLACED"
	LotExtended    Type = "LOT_EXTENDED"
	LotSold        Type = "LOT_SOLD"
	LotUnsold      Type = "LOT_UNSOLD"
	AuctionEnded   Type = "AUCTION_ENDED"
)

// Event is one entry in a single auction's gap-free, 1-origin sequence.
// Payload stays a json.RawMessage on the wire/in the store; callers decode
// it with the matching typed payload struct below once they know Type.
type Event struct {
	Id        string          `json:"id"`
	AuctionId string          `json:"auction_id"`
	Sequence  int64           `json:"sequence"`
	Type      Type            `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// --- typed payloads ---

type AuctionStartedPayload struct {
	AuctionId string    `json:"auction_id"`
	T         time.Time `json:"t"`
}

type AuctionPausedPayload struct {
	AuctionId string    `json:"auction_id"`
	T         time.Time `json:"t"`
	UserId    string    `json:"user_id,omitempty"`
}

type AuctionResumedPayload struct {
	AuctionId string     `json:"auction_id"`
	T         time.Time  `json:"t"`
	NewEndsAt *time.Time `json:"new_ends_at,omitempty"`
	UserId    string     `json:"user_id,omitempty"`
}

type LotStartedPayload struct {
	LotId     string    `json:"lot_id"`
	PlayerId  string    `json:"player"`
	BasePrice int64     `json:"base_price"`
	EndsAt    time.Time `json:"ends_at"`
}

type BidPlacedPayload struct {
	LotId  string    `json:"lot_id"`
	TeamId string    `json:"team_id"`
	Amount int64     `json:"amount"`
	UserId string    `json:"user_id,omitempty"`
	T      time.Time `json:"t"`
}

type LotExtendedPayload struct {
	LotId          string    `json:"lot_id"`
	NewEndsAt      time.Time `json:"new_ends_at"`
	ExtensionsUsed int       `json:"extensions_used"`
}

type LotSoldPayload struct {
	LotId      string `json:"lot_id"`
	TeamId     string `json:"team_id"`
	FinalPrice int64  `json:"final_price"`
	UserId     string `json:"user_id,omitempty"`
}

type LotUnsoldPayload struct {
	LotId  string `json:"lot_id"`
	Forced bool   `json:"forced,omitempty"`
	UserId string `json:"user_id,omitempty"`
}

type AuctionEndedPayload struct {
	AuctionId string    `json:"auction_id"`
	T         time.Time `json:"t"`
}

// New marshals payload and stamps identity/timestamp; Sequence is left at
// zero for the engine to allocate under the auction serialization token
// before the event is appended.
func New(auctionId string, eventType Type, payload any, now time.Time) (*Event, *internal_error.InternalError) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, internal_error.NewInternalServerError("error trying to encode event payload")
	}
	return &Event{
		Id:        uuid.New().String(),
		AuctionId: auctionId,
		Type:      eventType,
		Payload:   raw,
		Timestamp: now,
	}, nil
}
