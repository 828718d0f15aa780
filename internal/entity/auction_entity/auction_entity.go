// Package auction_entity defines the Auction aggregate: lifecycle status,
// the current-lot pointer, and the per-auction settings that parameterize
// timers and the increment schedule.
package auction_entity

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/google/uuid"
)

// Status is the auction lifecycle:
// NOT_STARTED -> IN_PROGRESS <-> PAUSED -> COMPLETED.
type Status string

const (
	NotStarted Status = "NOT_STARTED"
	InProgress Status = "IN_PROGRESS"
	Paused     Status = "PAUSED"
	Completed  Status = "COMPLETED"
)

// IncrementBand is a half-open [Min, Max) price band mapped to a minimum
// step; Max == 0 means "no upper bound" (the highest band).
type IncrementBand struct {
	Min  int64 `json:"min"`
	Max  int64 `json:"max"`
	Step int64 `json:"step"`
}

// IncrementMode selects which increment schedule bid admission consults.
// "banded" is normative; "flat" is the opt-in constant-step
// path the Open Questions section asks for.
type IncrementMode string

const (
	IncrementBanded IncrementMode = "banded"
	IncrementFlat   IncrementMode = "flat"
)

// Settings mirrors the auction settings table.
type Settings struct {
	LotDurationMs        int             `json:"lot_duration_ms"`
	SoftCloseThresholdMs int             `json:"soft_close_threshold_ms"`
	SoftCloseExtensionMs int             `json:"soft_close_extension_ms"`
	MaxExtensions        int             `json:"max_extensions"`
	InterLotGapMs        int             `json:"inter_lot_gap_ms"`
	IncrementBands       []IncrementBand `json:"increment_bands"`
	IncrementMode        IncrementMode   `json:"increment_mode"`
	FlatIncrement        int64           `json:"flat_increment"`
}

// DefaultIncrementBands is the default increment band table.
func DefaultIncrementBands() []IncrementBand {
	return []IncrementBand{
		{Min: 0, Max: 2_000_000, Step: 100_000},
		{Min: 2_000_000, Max: 10_000_000, Step: 250_000},
		{Min: 10_000_000, Max: 50_000_000, Step: 1_000_000},
		{Min: 50_000_000, Max: 200_000_000, Step: 2_500_000},
		{Min: 200_000_000, Max: 0, Step: 2_500_000},
	}
}

// DefaultSettings is the full default settings row.
func DefaultSettings() Settings {
	return Settings{
		LotDurationMs:        30_000,
		SoftCloseThresholdMs: 5_000,
		SoftCloseExtensionMs: 10_000,
		MaxExtensions:        3,
		InterLotGapMs:        3_000,
		IncrementBands:       DefaultIncrementBands(),
		IncrementMode:        IncrementBanded,
	}
}

// Auction is identity, lifecycle status, the current-lot pointer the
// Auction Controller exclusively owns, and settings.
type Auction struct {
	Id           string   `json:"id"`
	SeasonId     string   `json:"season_id"`
	Status       Status   `json:"status"`
	CurrentLotId *string  `json:"current_lot_id,omitempty"`
	Settings     Settings `json:"settings"`
}

type AuctionRepositoryInterface interface {
	CreateAuction(ctx context.Context, auction *Auction) *internal_error.InternalError
	FindAuctionById(ctx context.Context, id string) (*Auction, *internal_error.InternalError)
	FindAllAuctions(ctx context.Context, status Status, seasonId string) ([]Auction, *internal_error.InternalError)
	// UpdateAuctionState persists the status and current-lot pointer in one
	// write; it is the only mutation path for Auction after creation.
	UpdateAuctionState(ctx context.Context, id string, status Status, currentLotId *string) *internal_error.InternalError
}

func CreateAuctionBody(seasonId string, settings Settings) (*Auction, *internal_error.InternalError) {
	if settings.LotDurationMs <= 0 {
		settings = DefaultSettings()
	}
	auction := &Auction{
		Id:       uuid.New().String(),
		SeasonId: seasonId,
		Status:   NotStarted,
		Settings: settings,
	}
	if err := auction.Validate(); err != nil {
		return nil, err
	}
	return auction, nil
}

func (au *Auction) Validate() *internal_error.InternalError {
	if err := uuid.Validate(au.SeasonId); err != nil {
		return internal_error.NewInvalidInputError("season id is not a valid id")
	}
	if au.Settings.LotDurationMs <= 0 || au.Settings.SoftCloseThresholdMs < 0 ||
		au.Settings.SoftCloseExtensionMs < 0 || au.Settings.MaxExtensions < 0 ||
		au.Settings.InterLotGapMs < 0 {
		return internal_error.NewInvalidInputError("invalid auction settings")
	}
	return nil
}

// legalTransitions is the explicit transition table;
// illegal transitions are rejected with InvalidState rather than no-op.
var legalTransitions = map[Status]map[Status]bool{
	NotStarted: {InProgress: true},
	InProgress: {Paused: true, Completed: true},
	Paused:     {InProgress: true, Completed: true},
	Completed:  {},
}

func (au *Auction) CanTransitionTo(next Status) bool {
	allowed, ok := legalTransitions[au.Status]
	return ok && allowed[next]
}
