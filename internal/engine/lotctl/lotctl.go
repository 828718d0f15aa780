// Package lotctl implements the Lot Controller: the state
// transitions a single lot goes through while it is being sold, plus the
// timer scheduling that drives its countdown and anti-sniping soft-close
// extension. State transitions here are pure functions of their
// arguments; the caller (the Engine Facade) is the one holding the
// auction's serialization token and the Clock, and is responsible for
// persisting the mutated Lot and appending the resulting event.
package lotctl

import (
	"time"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/engine/clock"
	"github.com/auctioncore/auction-engine/internal/internal_error"
)

// Timer owns the single outstanding deadline for one auction's active
// lot. Only one lot is ever in progress per auction,
// so a Timer value is shared by the whole auction rather than allocated
// per lot.
type Timer struct {
	clock clock.Clock
	timer clock.Timer
}

func NewTimer(c clock.Clock) *Timer {
	return &Timer{clock: c}
}

// Schedule arms the deadline, cancelling whatever was previously armed.
// onExpire runs on the clock's own goroutine for a SystemClock; callers
// must re-acquire the auction's serialization token inside onExpire
// before touching engine state.
func (t *Timer) Schedule(d time.Duration, onExpire func()) {
	t.Cancel()
	t.timer = t.clock.AfterFunc(d, onExpire)
}

// Cancel disarms the current deadline, if any. It is idempotent.
func (t *Timer) Cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Start transitions a QUEUED lot to IN_PROGRESS: current_price seeds from
// the player's base price and ends_at is now plus the auction's
// lot_duration_ms.
func Start(lot *lot_entity.Lot, basePrice int64, settings auction_entity.Settings, now time.Time) *internal_error.InternalError {
	if !lot.CanTransitionTo(lot_entity.InProgress) {
		return internal_error.NewInvalidStateError("lot cannot start from its current status")
	}
	price := basePrice
	ends := now.Add(time.Duration(settings.LotDurationMs) * time.Millisecond).UnixMilli()
	lot.Status = lot_entity.InProgress
	lot.CurrentPrice = &price
	lot.EndsAtUnixMs = &ends
	lot.RemainingMs = nil
	lot.ExtensionsUsed = 0
	return nil
}

// ApplyBid records a winning bid's amount as the lot's new current_price
// and applies anti-sniping soft-close: if the bid lands inside
// soft_close_threshold_ms of ends_at and max_extensions has not been
// reached, ends_at is pushed out by soft_close_extension_ms. It reports
// whether an extension was granted, so the caller knows whether to
// reschedule the Timer and emit a LotExtended event.
func ApplyBid(lot *lot_entity.Lot, settings auction_entity.Settings, amount int64, now time.Time) (extended bool) {
	lot.CurrentPrice = &amount

	if lot.EndsAtUnixMs == nil {
		return false
	}
	remaining := *lot.EndsAtUnixMs - now.UnixMilli()
	if remaining > int64(settings.SoftCloseThresholdMs) {
		return false
	}
	if lot.ExtensionsUsed >= settings.MaxExtensions {
		return false
	}
	newEnds := now.UnixMilli() + int64(settings.SoftCloseExtensionMs)
	lot.EndsAtUnixMs = &newEnds
	lot.ExtensionsUsed++
	return true
}

// Pause freezes the countdown: remaining_ms captures the time left and
// ends_at is cleared, matching the Lot entity's "nil while paused" field
// convention.
func Pause(lot *lot_entity.Lot, now time.Time) *internal_error.InternalError {
	if !lot.CanTransitionTo(lot_entity.Paused) {
		return internal_error.NewInvalidStateError("lot cannot be paused from its current status")
	}
	var remaining int64
	if lot.EndsAtUnixMs != nil {
		remaining = *lot.EndsAtUnixMs - now.UnixMilli()
		if remaining < 0 {
			remaining = 0
		}
	}
	lot.Status = lot_entity.Paused
	lot.EndsAtUnixMs = nil
	lot.RemainingMs = &remaining
	return nil
}

// Resume restores the countdown from where Pause left it: ends_at
// becomes now plus whatever remaining_ms was captured.
func Resume(lot *lot_entity.Lot, now time.Time) *internal_error.InternalError {
	if !lot.CanTransitionTo(lot_entity.InProgress) {
		return internal_error.NewInvalidStateError("lot cannot resume from its current status")
	}
	var remaining int64
	if lot.RemainingMs != nil {
		remaining = *lot.RemainingMs
	}
	ends := now.Add(time.Duration(remaining) * time.Millisecond).UnixMilli()
	lot.Status = lot_entity.InProgress
	lot.EndsAtUnixMs = &ends
	lot.RemainingMs = nil
	return nil
}

// Finalize closes the lot as SOLD (winnerTeamId non-nil) or UNSOLD
// (winnerTeamId nil), matching ForceSell/MarkUnsold and the
// natural countdown-expiry path.
func Finalize(lot *lot_entity.Lot, winnerTeamId *string, finalPrice *int64) *internal_error.InternalError {
	next := lot_entity.Unsold
	if winnerTeamId != nil {
		next = lot_entity.Sold
	}
	if !lot.CanTransitionTo(next) {
		return internal_error.NewInvalidStateError("lot cannot be finalized from its current status")
	}
	lot.Status = next
	lot.WinnerTeamId = winnerTeamId
	lot.FinalPrice = finalPrice
	lot.EndsAtUnixMs = nil
	lot.RemainingMs = nil
	return nil
}
