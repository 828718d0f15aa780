// Package team_entity defines the Team aggregate: a season participant with
// a fixed budget that only ever increases (budget_spent) during an auction.
package team_entity

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

// Team holds identity plus the two budget fields the budget invariants
// are stated against: 0 <= BudgetSpent <= BudgetTotal.
type Team struct {
	Id          string `json:"id"`
	SeasonId    string `json:"season_id"`
	Name        string `json:"name"`
	BudgetTotal int64  `json:"budget_total"`
	BudgetSpent int64  `json:"budget_spent"`
}

// Remaining is the budget headroom a bid may still spend.
func (t *Team) Remaining() int64 {
	return t.BudgetTotal - t.BudgetSpent
}

type TeamRepositoryInterface interface {
	CreateTeam(ctx context.Context, team *Team) *internal_error.InternalError
	FindTeamById(ctx context.Context, id string) (*Team, *internal_error.InternalError)
	FindTeamsBySeasonId(ctx context.Context, seasonId string) ([]Team, *internal_error.InternalError)
	// ApplyBudgetDelta atomically adjusts budget_spent by delta (positive on
	// a lot sale, negative on an administrative refund) and persists the
	// new value. Implementations must reject a delta that would violate
	// 0 <= budget_spent <= budget_total.
	ApplyBudgetDelta(ctx context.Context, teamId string, delta int64) *internal_error.InternalError
}

func CreateTeam(seasonId, name string, budgetTotal int64) (*Team, *internal_error.InternalError) {
	team := &Team{
		Id:          uuid.New().String(),
		SeasonId:    seasonId,
		Name:        name,
		BudgetTotal: budgetTotal,
		BudgetSpent: 0,
	}
	if err := team.Validate(); err != nil {
		return nil, err
	}
	return team, nil
}

func (t *Team) Validate() *internal_error.InternalError {
	if err := uuid.Validate(t.SeasonId); err != nil {
		return internal_error.NewInvalidInputError("season id is not a valid id")
	}
	if len(t.Name) < 1 {
		return internal_error.NewInvalidInputError("team name is required")
	}
	if t.BudgetTotal <= 0 {
		return internal_error.NewInvalidInputError("budget_total must be positive")
	}
	return nil
}
