// Package engine_usecase is the application layer between the HTTP
// controllers and the engine core: it translates request/response DTOs
// and delegates every piece of actual auction logic to engine.Registry.
package engine_usecase

import (
	"context"

	"github.com/auctioncore/auction-engine/configuration/config"
	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/event_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/entity/season_entity"
	"github.com/auctioncore/auction-engine/internal/entity/team_entity"
	"github.com/auctioncore/auction-engine/internal/engine"
	"github.com/auctioncore/auction-engine/internal/engine/hub"
	"github.com/auctioncore/auction-engine/internal/engine/repo"
	"github.com/auctioncore/auction-engine/internal/internal_error"
)

type EngineUseCase struct {
	store    repo.Store
	registry *engine.Registry
}

func NewEngineUseCase(store repo.Store, registry *engine.Registry) *EngineUseCase {
	return &EngineUseCase{store: store, registry: registry}
}

// --- admin setup: seasons, teams, players, auctions ---

type CreateSeasonInputDTO struct {
	Name             string `json:"name" validate:"required,min=2"`
	MaxSquadSize     int    `json:"max_squad_size"`
	MaxOverseas      int    `json:"max_overseas"`
	MinWicketKeepers int    `json:"min_wicket_keepers"`
	StartingBudget   int64  `json:"starting_budget" validate:"required,gt=0"`
}

type SeasonOutputDTO struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	StartingBudget int64  `json:"starting_budget"`
}

func (uc *EngineUseCase) CreateSeason(ctx context.Context, in CreateSeasonInputDTO) (*SeasonOutputDTO, *internal_error.InternalError) {
	rules := season_entity.DefaultRosterRules()
	if in.MaxSquadSize > 0 {
		rules.MaxSquadSize = in.MaxSquadSize
	}
	if in.MaxOverseas > 0 {
		rules.MaxOverseas = in.MaxOverseas
	}
	if in.MinWicketKeepers > 0 {
		rules.MinWicketKeepers = in.MinWicketKeepers
	}

	season, err := season_entity.CreateSeason(in.Name, rules, in.StartingBudget)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Seasons().CreateSeason(ctx, season); err != nil {
		return nil, err
	}
	return &SeasonOutputDTO{Id: season.Id, Name: season.Name, StartingBudget: season.StartingBudget}, nil
}

type CreateTeamInputDTO struct {
	SeasonId    string `json:"season_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	BudgetTotal int64  `json:"budget_total" validate:"required,gt=0"`
}

type TeamOutputDTO struct {
	Id          string `json:"id"`
	SeasonId    string `json:"season_id"`
	Name        string `json:"name"`
	BudgetTotal int64  `json:"budget_total"`
	BudgetSpent int64  `json:"budget_spent"`
}

func (uc *EngineUseCase) CreateTeam(ctx context.Context, in CreateTeamInputDTO) (*TeamOutputDTO, *internal_error.InternalError) {
	team, err := team_entity.CreateTeam(in.SeasonId, in.Name, in.BudgetTotal)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Teams().CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	return teamToDTO(team), nil
}

func teamToDTO(t *team_entity.Team) *TeamOutputDTO {
	return &TeamOutputDTO{Id: t.Id, SeasonId: t.SeasonId, Name: t.Name, BudgetTotal: t.BudgetTotal, BudgetSpent: t.BudgetSpent}
}

type CreatePlayerInputDTO struct {
	SeasonId   string `json:"season_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	IsOverseas bool   `json:"is_overseas"`
	BasePrice  int64  `json:"base_price" validate:"required,gt=0"`
}

type PlayerOutputDTO struct {
	Id         string `json:"id"`
	SeasonId   string `json:"season_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsOverseas bool   `json:"is_overseas"`
	BasePrice  int64  `json:"base_price"`
}

func (uc *EngineUseCase) CreatePlayer(ctx context.Context, in CreatePlayerInputDTO) (*PlayerOutputDTO, *internal_error.InternalError) {
	player, err := player_entity.CreatePlayer(in.SeasonId, in.Name, player_entity.Role(in.Role), in.IsOverseas, in.BasePrice)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Players().CreatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return &PlayerOutputDTO{
		Id: player.Id, SeasonId: player.SeasonId, Name: player.Name,
		Role: string(player.Role), IsOverseas: player.IsOverseas, BasePrice: player.BasePrice,
	}, nil
}

type CreateAuctionInputDTO struct {
	SeasonId  string   `json:"season_id" validate:"required"`
	PlayerIds []string `json:"player_ids" validate:"required,min=1"`
}

type AuctionOutputDTO struct {
	Id           string  `json:"id"`
	SeasonId     string  `json:"season_id"`
	Status       string  `json:"status"`
	CurrentLotId *string `json:"current_lot_id,omitempty"`
}

func (uc *EngineUseCase) CreateAuction(ctx context.Context, in CreateAuctionInputDTO) (*AuctionOutputDTO, *internal_error.InternalError) {
	a, err := engine.InitializeAuction(ctx, uc.store, in.SeasonId, settingsFromEnv(), in.PlayerIds)
	if err != nil {
		return nil, err
	}
	return auctionToDTO(a), nil
}

// settingsFromEnv seeds a new auction's timer settings from the process's
// AUCTION_* defaults, keeping the increment schedule at its normative
// banded table.
func settingsFromEnv() auction_entity.Settings {
	d := config.LoadDefaults()
	settings := auction_entity.DefaultSettings()
	settings.LotDurationMs = d.LotDurationMs
	settings.SoftCloseThresholdMs = d.SoftCloseThresholdMs
	settings.SoftCloseExtensionMs = d.SoftCloseExtensionMs
	settings.MaxExtensions = d.MaxExtensions
	settings.InterLotGapMs = d.InterLotGapMs
	return settings
}

func auctionToDTO(a *auction_entity.Auction) *AuctionOutputDTO {
	return &AuctionOutputDTO{Id: a.Id, SeasonId: a.SeasonId, Status: string(a.Status), CurrentLotId: a.CurrentLotId}
}

// --- live auction operations, every one delegated straight to the Engine ---

func (uc *EngineUseCase) StartAuction(ctx context.Context, auctionId string) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.StartAuction(ctx)
}

func (uc *EngineUseCase) PauseAuction(ctx context.Context, auctionId string, userId string) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.PauseAuction(ctx, userId)
}

func (uc *EngineUseCase) ResumeAuction(ctx context.Context, auctionId string, userId string) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.ResumeAuction(ctx, userId)
}

func (uc *EngineUseCase) EndAuction(ctx context.Context, auctionId string) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.EndAuction(ctx)
}

func (uc *EngineUseCase) StartNextLot(ctx context.Context, auctionId string) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.StartNextLot(ctx)
}

func (uc *EngineUseCase) ForceSell(ctx context.Context, auctionId, lotId string, userId string) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.ForceSell(ctx, lotId, userId)
}

func (uc *EngineUseCase) MarkUnsold(ctx context.Context, auctionId, lotId string, userId string) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.MarkUnsold(ctx, lotId, userId)
}

type PlaceBidInputDTO struct {
	TeamId string `json:"team_id" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	UserId string `json:"user_id,omitempty"`
}

func (uc *EngineUseCase) PlaceBid(ctx context.Context, auctionId, lotId string, in PlaceBidInputDTO) *internal_error.InternalError {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return err
	}
	return e.PlaceBid(ctx, engine.PlaceBidInput{LotId: lotId, TeamId: in.TeamId, Amount: in.Amount, UserId: in.UserId})
}

// --- read-only views ---

type LotOutputDTO struct {
	Id             string  `json:"id"`
	PlayerId       string  `json:"player_id"`
	Order          int     `json:"order"`
	Status         string  `json:"status"`
	CurrentPrice   *int64  `json:"current_price,omitempty"`
	EndsAtUnixMs   *int64  `json:"ends_at_unix_ms,omitempty"`
	ExtensionsUsed int     `json:"extensions_used"`
	WinnerTeamId   *string `json:"winner_team_id,omitempty"`
	FinalPrice     *int64  `json:"final_price,omitempty"`
}

type SnapshotOutputDTO struct {
	Auction  AuctionOutputDTO `json:"auction"`
	Lots     []LotOutputDTO   `json:"lots"`
	Sequence int64            `json:"sequence"`
}

func (uc *EngineUseCase) GetSnapshot(ctx context.Context, auctionId string) (*SnapshotOutputDTO, *internal_error.InternalError) {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return nil, err
	}
	snap := e.Snapshot()

	lots := make([]LotOutputDTO, 0, len(snap.Lots))
	for _, l := range snap.Lots {
		lots = append(lots, lotToDTO(l))
	}
	return &SnapshotOutputDTO{Auction: *auctionToDTO(&snap.Auction), Lots: lots, Sequence: snap.Sequence}, nil
}

func lotToDTO(l lot_entity.Lot) LotOutputDTO {
	return LotOutputDTO{
		Id: l.Id, PlayerId: l.PlayerId, Order: l.Order, Status: string(l.Status),
		CurrentPrice: l.CurrentPrice, EndsAtUnixMs: l.EndsAtUnixMs, ExtensionsUsed: l.ExtensionsUsed,
		WinnerTeamId: l.WinnerTeamId, FinalPrice: l.FinalPrice,
	}
}

// Subscribe hands back a live subscription plus the replayed history
// since fromSequence, for a stream controller to fan out over SSE.
func (uc *EngineUseCase) Subscribe(ctx context.Context, auctionId string, fromSequence int64) (*hub.Subscription, []event_entity.Event, *internal_error.InternalError) {
	e, err := uc.registry.Get(ctx, auctionId)
	if err != nil {
		return nil, nil, err
	}
	return e.Subscribe(ctx, fromSequence)
}
