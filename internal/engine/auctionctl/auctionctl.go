// Package auctionctl implements the Auction Controller: the auction-level
// lifecycle transitions and the current_lot pointer. Only this controller
// may write those fields. Like lotctl, these are pure functions over the
// entity; persistence, event emission and timer coordination are the
// Engine Facade's job.
package auctionctl

import (
	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
)

// Start transitions NOT_STARTED -> IN_PROGRESS.
func Start(auction *auction_entity.Auction) *internal_error.InternalError {
	if !auction.CanTransitionTo(auction_entity.InProgress) {
		return internal_error.NewInvalidStateError("auction cannot start from its current status")
	}
	auction.Status = auction_entity.InProgress
	return nil
}

// Pause transitions IN_PROGRESS -> PAUSED.
func Pause(auction *auction_entity.Auction) *internal_error.InternalError {
	if !auction.CanTransitionTo(auction_entity.Paused) {
		return internal_error.NewInvalidStateError("auction cannot be paused from its current status")
	}
	auction.Status = auction_entity.Paused
	return nil
}

// Resume transitions PAUSED -> IN_PROGRESS.
func Resume(auction *auction_entity.Auction) *internal_error.InternalError {
	if !auction.CanTransitionTo(auction_entity.InProgress) {
		return internal_error.NewInvalidStateError("auction cannot resume from its current status")
	}
	auction.Status = auction_entity.InProgress
	return nil
}

// End transitions the auction to COMPLETED and clears the current-lot
// pointer; it is legal from either IN_PROGRESS or PAUSED.
func End(auction *auction_entity.Auction) *internal_error.InternalError {
	if !auction.CanTransitionTo(auction_entity.Completed) {
		return internal_error.NewInvalidStateError("auction cannot end from its current status")
	}
	auction.Status = auction_entity.Completed
	auction.CurrentLotId = nil
	return nil
}

// SetCurrentLot advances the current_lot pointer. A nil lotId means no lot
// is active, which is the state between a lot's finalization and the next
// lot's start (the inter_lot_gap_ms window).
func SetCurrentLot(auction *auction_entity.Auction, lotId *string) {
	auction.CurrentLotId = lotId
}
