// Package roster_entity defines the Roster Entry aggregate: a team's
// acquired player, created atomically when a lot finalizes SOLD.
package roster_entity

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

type RosterEntry struct {
	Id       string `json:"id"`
	TeamId   string `json:"team_id"`
	PlayerId string `json:"player_id"`
	Price    int64  `json:"price"`
}

type RosterRepositoryInterface interface {
	CreateRosterEntry(ctx context.Context, entry *RosterEntry) *internal_error.InternalError
	FindRosterByTeamId(ctx context.Context, teamId string) ([]RosterEntry, *internal_error.InternalError)
	CountByTeamId(ctx context.Context, teamId string) (int, *internal_error.InternalError)
	// CountByTeamAndRole supports the wicket-keeper feasibility check in
	// bid admission. It joins against the
	// player catalog since RosterEntry itself only knows a player id.
	CountByTeamAndRole(ctx context.Context, teamId string, role player_entity.Role) (int, *internal_error.InternalError)
	CountOverseasByTeamId(ctx context.Context, teamId string) (int, *internal_error.InternalError)
}

func NewRosterEntry(teamId, playerId string, price int64) (*RosterEntry, *internal_error.InternalError) {
	entry := &RosterEntry{
		Id:       uuid.New().String(),
		TeamId:   teamId,
		PlayerId: playerId,
		Price:    price,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *RosterEntry) Validate() *internal_error.InternalError {
	if err := uuid.Validate(r.TeamId); err != nil {
		return internal_error.NewInvalidInputError("team id is not a valid id")
	}
	if err := uuid.Validate(r.PlayerId); err != nil {
		return internal_error.NewInvalidInputError("player id is not a valid id")
	}
	if r.Price < 0 {
		return internal_error.NewInvalidInputError("price cannot be negative")
	}
	return nil
}
