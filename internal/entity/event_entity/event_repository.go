package event_entity

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/internal_error"
)

// EventRepositoryInterface is the persistence contract backing the Event
// Log. AppendEvent stores the event under the Sequence the engine already
// allocated and must fail the whole write if the (auction_id, sequence)
// unique constraint would be violated. In practice the core never retries,
// since sequence allocation is already serialized behind the auction lock.
type EventRepositoryInterface interface {
	AppendEvent(ctx context.Context, event *Event) *internal_error.InternalError
	FindEventsSince(ctx context.Context, auctionId string, fromSequence int64) ([]Event, *internal_error.InternalError)
	FindLatestSequence(ctx context.Context, auctionId string) (int64, *internal_error.InternalError)
}
