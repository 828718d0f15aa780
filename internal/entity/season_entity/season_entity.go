// Package season_entity defines the Season aggregate: the immutable
// configuration a league's auctions run against (roster caps, starting
// budget per team).
package season_entity

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

// RosterRules are the admission caps from the season settings table.
type RosterRules struct {
	MaxSquadSize     int
	MaxOverseas      int
	MinWicketKeepers int
}

// DefaultRosterRules returns the default roster rules.
func DefaultRosterRules() RosterRules {
	return RosterRules{
		MaxSquadSize:     20,
		MaxOverseas:      4,
		MinWicketKeepers: 1,
	}
}

// Season is identity plus the configuration the engine consults at bid
// admission time; it never mutates once an auction under it has started.
type Season struct {
	Id             string      `json:"id"`
	Name           string      `json:"name"`
	Rules          RosterRules `json:"rules"`
	StartingBudget int64       `json:"starting_budget"`
}

// SeasonRepositoryInterface is the persistence contract the engine core
// depends on; implementations live under infra/database/season.
type SeasonRepositoryInterface interface {
	CreateSeason(ctx context.Context, season *Season) *internal_error.InternalError
	FindSeasonById(ctx context.Context, id string) (*Season, *internal_error.InternalError)
}

// CreateSeason is the factory used by admin tooling to stand up a season;
// validation happens before persistence, same as every other entity in this
// module.
func CreateSeason(name string, rules RosterRules, startingBudget int64) (*Season, *internal_error.InternalError) {
	season := &Season{
		Id:             uuid.New().String(),
		Name:           name,
		Rules:          rules,
		StartingBudget: startingBudget,
	}
	if err := season.Validate(); err != nil {
		return nil, err
	}
	return season, nil
}

func (s *Season) Validate() *internal_error.InternalError {
	if len(s.Name) < 2 {
		return internal_error.NewInvalidInputError("season name must be at least 2 characters")
	}
	if s.Rules.MaxSquadSize <= 0 {
		return internal_error.NewInvalidInputError("max_squad_size must be positive")
	}
	if s.Rules.MaxOverseas < 0 {
		return internal_error.NewInvalidInputError("max_overseas cannot be negative")
	}
	if s.Rules.MinWicketKeepers < 0 {
		return internal_error.NewInvalidInputError("min_wicket_keepers cannot be negative")
	}
	if s.StartingBudget <= 0 {
		return internal_error.NewInvalidInputError("starting_budget must be positive")
	}
	return nil
}
