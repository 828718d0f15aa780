package admission

import (
	"testing"
	"time"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/entity/season_entity"
	"github.com/auctioncore/auction-engine/internal/entity/team_entity"
	"github.com/stretchr/testify/assert"
)

func baseInput() Input {
	now := time.Now()
	endsAt := now.Add(10 * time.Second).UnixMilli()
	return Input{
		AuctionStatus: auction_entity.InProgress,
		Settings:      auction_entity.DefaultSettings(),
		Lot: lot_entity.Lot{
			Status:       lot_entity.InProgress,
			EndsAtUnixMs: &endsAt,
		},
		Player: player_entity.Player{
			Role:      player_entity.Batsman,
			BasePrice: 1_000_000,
		},
		Team: team_entity.Team{
			Id:          "team-a",
			BudgetTotal: 10_000_000,
			BudgetSpent: 0,
		},
		RosterRules: season_entity.DefaultRosterRules(),
		BidAmount:   1_100_000,
		Now:         now,
	}
}

func TestCheck_AdmitsValidBid(t *testing.T) {
	assert.Nil(t, Check(baseInput()))
}

func TestCheck_RejectsWhenAuctionNotRunning(t *testing.T) {
	in := baseInput()
	in.AuctionStatus = auction_entity.Paused
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "AuctionNotRunning", err.Kind)
}

func TestCheck_RejectsWhenLotNotActive(t *testing.T) {
	in := baseInput()
	in.Lot.Status = lot_entity.Paused
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "LotNotActive", err.Kind)
}

func TestCheck_RejectsPastEndsAt(t *testing.T) {
	in := baseInput()
	past := in.Now.Add(-time.Second).UnixMilli()
	in.Lot.EndsAtUnixMs = &past
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "LotClosed", err.Kind)
}

func TestCheck_RejectsAlreadyLeadingTeam(t *testing.T) {
	in := baseInput()
	in.LeaderTeamId = in.Team.Id
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "AlreadyLeading", err.Kind)
}

func TestCheck_RejectsBelowMinimumIncrement(t *testing.T) {
	in := baseInput()
	in.BidAmount = in.Player.BasePrice + 1
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "BelowIncrement", err.Kind)
	assert.Equal(t, in.Player.BasePrice+100_000, err.Details["min_next"])
}

func TestCheck_RejectsInsufficientBudget(t *testing.T) {
	in := baseInput()
	in.Team.BudgetTotal = 1_000_000
	in.Team.BudgetSpent = 0
	in.BidAmount = 1_100_000
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "InsufficientBudget", err.Kind)
}

func TestCheck_RejectsSquadFull(t *testing.T) {
	in := baseInput()
	in.RosterRules.MaxSquadSize = 5
	in.SquadSize = 5
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "SquadFull", err.Kind)
}

func TestCheck_RejectsOverseasCapBreach(t *testing.T) {
	in := baseInput()
	in.Player.IsOverseas = true
	in.RosterRules.MaxOverseas = 2
	in.OverseasCount = 2
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "RosterConstraint", err.Kind)
	assert.Equal(t, "max_overseas", err.Details["reason"])
}

func TestCheck_RejectsWhenWicketKeeperQuotaBecomesUnreachable(t *testing.T) {
	in := baseInput()
	in.RosterRules.MaxSquadSize = 3
	in.RosterRules.MinWicketKeepers = 1
	in.SquadSize = 2
	in.RoleCount = 0
	// Player is a Batsman; winning this lot fills the last slot with no
	// wicket-keeper acquired yet, making the quota unreachable.
	err := Check(in)
	assert.NotNil(t, err)
	assert.Equal(t, "RosterConstraint", err.Kind)
	assert.Equal(t, "min_wicket_keepers", err.Details["reason"])
}

func TestCheck_AdmitsWicketKeeperPickThatFillsQuota(t *testing.T) {
	in := baseInput()
	in.RosterRules.MaxSquadSize = 3
	in.RosterRules.MinWicketKeepers = 1
	in.SquadSize = 2
	in.RoleCount = 0
	in.Player.Role = player_entity.WicketKeeper
	assert.Nil(t, Check(in))
}
