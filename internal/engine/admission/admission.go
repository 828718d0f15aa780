// Package admission implements Bid Admission: the pure
// predicate the engine consults before accepting a bid, evaluated against
// an in-memory snapshot of the auction, lot, team and roster state held
// under the auction's serialization token. It never touches a repository
// or the clock itself; callers assemble Input from state they already
// hold and pass Now in explicitly, which keeps the ordered clauses below
// deterministic and trivially testable.
package admission

import (
	"time"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/entity/season_entity"
	"github.com/auctioncore/auction-engine/internal/entity/team_entity"
	"github.com/auctioncore/auction-engine/internal/engine/increment"
	"github.com/auctioncore/auction-engine/internal/internal_error"
)

// Input is the snapshot a bid is checked against. Callers own fetching
// this data; Check only judges it.
type Input struct {
	AuctionStatus auction_entity.Status
	Settings      auction_entity.Settings
	Lot           lot_entity.Lot
	Player        player_entity.Player
	Team          team_entity.Team
	RosterRules   season_entity.RosterRules

	// LeaderTeamId is the team currently holding the highest valid bid on
	// the lot, or "" if no bid has been placed yet.
	LeaderTeamId string

	// BidAmount is the amount the team is offering.
	BidAmount int64

	// Now is the instant the bid arrives at, supplied by the caller so
	// admission stays a pure function of its arguments.
	Now time.Time

	// SquadSize, OverseasCount and RoleCount are the team's roster counts
	// before this bid would be won; RoleCount is the number of
	// wicket-keepers the team already holds.
	SquadSize     int
	OverseasCount int
	RoleCount     int
}

// Check evaluates the ordered admission clauses and returns the
// first one that fails, or nil if the bid is admissible.
func Check(in Input) *internal_error.InternalError {
	if in.AuctionStatus != auction_entity.InProgress {
		return internal_error.NewAuctionNotRunningError("auction is not in progress")
	}

	if in.Lot.Status != lot_entity.InProgress {
		return internal_error.NewLotNotActiveError("lot is not accepting bids")
	}

	if in.Lot.EndsAtUnixMs == nil || in.Now.UnixMilli() >= *in.Lot.EndsAtUnixMs {
		return internal_error.NewLotClosedError("lot has already closed")
	}

	if in.LeaderTeamId != "" && in.LeaderTeamId == in.Team.Id {
		return internal_error.NewAlreadyLeadingError("team is already the highest bidder")
	}

	current := in.Player.BasePrice
	if in.Lot.CurrentPrice != nil {
		current = *in.Lot.CurrentPrice
	}
	minNext := increment.MinimumNextBid(in.Settings, current)
	if in.BidAmount < minNext {
		return internal_error.NewBelowIncrementError("bid is below the minimum next bid", minNext)
	}

	if in.BidAmount > in.Team.Remaining() {
		return internal_error.NewInsufficientBudgetError("bid exceeds remaining budget", in.Team.Remaining())
	}

	if in.RosterRules.MaxSquadSize > 0 && in.SquadSize >= in.RosterRules.MaxSquadSize {
		return internal_error.NewSquadFullError("team roster is already at max_squad_size")
	}

	if reason := feasibilityReason(in); reason != "" {
		return internal_error.NewRosterConstraintError("winning this lot would make the roster infeasible", reason)
	}

	return nil
}

// feasibilityReason checks the two roster shape constraints that a single
// bid can make permanently unfulfillable: the overseas cap, and squeezing
// out room for the minimum wicket-keeper count once the squad fills up.
// It returns the violated rule's name, or "" if winning this lot keeps the
// roster feasible.
func feasibilityReason(in Input) string {
	if in.Player.IsOverseas && in.RosterRules.MaxOverseas > 0 && in.OverseasCount >= in.RosterRules.MaxOverseas {
		return "max_overseas"
	}

	if in.RosterRules.MinWicketKeepers > 0 && in.Player.Role != player_entity.WicketKeeper {
		slotsLeftAfter := in.RosterRules.MaxSquadSize - (in.SquadSize + 1)
		wicketKeepersStillNeeded := in.RosterRules.MinWicketKeepers - in.RoleCount
		if wicketKeepersStillNeeded > 0 && slotsLeftAfter < wicketKeepersStillNeeded {
			return "min_wicket_keepers"
		}
	}

	return ""
}
