// Package player_entity defines the Player aggregate: the item being sold
// inside a Lot.
package player_entity

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

// Role is one of the four roster categories.
type Role string

const (
	Batsman      Role = "BATSMAN"
	Bowler       Role = "BOWLER"
	AllRounder   Role = "ALL_ROUNDER"
	WicketKeeper Role = "WICKET_KEEPER"
)

func (r Role) Valid() bool {
	switch r {
	case Batsman, Bowler, AllRounder, WicketKeeper:
		return true
	default:
		return false
	}
}

type Player struct {
	Id         string `json:"id"`
	SeasonId   string `json:"season_id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	IsOverseas bool   `json:"is_overseas"`
	BasePrice  int64  `json:"base_price"`
}

type PlayerRepositoryInterface interface {
	CreatePlayer(ctx context.Context, player *Player) *internal_error.InternalError
	FindPlayerById(ctx context.Context, id string) (*Player, *internal_error.InternalError)
}

func CreatePlayer(seasonId, name string, role Role, isOverseas bool, basePrice int64) (*Player, *internal_error.InternalError) {
	player := &Player{
		Id:         uuid.New().String(),
		SeasonId:   seasonId,
		Name:       name,
		Role:       role,
		IsOverseas: isOverseas,
		BasePrice:  basePrice,
	}
	if err := player.Validate(); err != nil {
		return nil, err
	}
	return player, nil
}

func (p *Player) Validate() *internal_error.InternalError {
	if err := uuid.Validate(p.SeasonId); err != nil {
		return internal_error.NewInvalidInputError("season id is not a valid id")
	}
	if len(p.Name) < 1 {
		return internal_error.NewInvalidInputError("player name is required")
	}
	if !p.Role.Valid() {
		return internal_error.NewInvalidInputError("invalid player role")
	}
	if p.BasePrice <= 0 {
		return internal_error.NewInvalidInputError("base_price must be positive")
	}
	return nil
}
