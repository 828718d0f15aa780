package engine

import (
	"context"
	"sync"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/entity/team_entity"
	"github.com/auctioncore/auction-engine/internal/engine/clock"
	"github.com/auctioncore/auction-engine/internal/engine/hub"
	"github.com/auctioncore/auction-engine/internal/engine/lotctl"
	"github.com/auctioncore/auction-engine/internal/engine/repo"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.uber.org/zap"
)

// Registry hands out the one live Engine per auction, loading it from the
// Store on first use and keeping it resident for the life of the process.
// This is the process-wide entry point the usecase layer calls through.
type Registry struct {
	mu      sync.Mutex
	engines map[string]*Engine

	store  repo.Store
	clock  clock.Clock
	hub    *hub.Hub
	logger *zap.Logger
}

func NewRegistry(store repo.Store, c clock.Clock, h *hub.Hub, logger *zap.Logger) *Registry {
	return &Registry{
		engines: make(map[string]*Engine),
		store:   store,
		clock:   c,
		hub:     h,
		logger:  logger,
	}
}

// Get returns the resident Engine for auctionId, loading it from the
// Store the first time it is requested.
func (r *Registry) Get(ctx context.Context, auctionId string) (*Engine, *internal_error.InternalError) {
	r.mu.Lock()
	if e, ok := r.engines[auctionId]; ok {
		r.mu.Unlock()
		return e, nil
	}
	r.mu.Unlock()

	e, err := r.load(ctx, auctionId)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.engines[auctionId]; ok {
		return existing, nil
	}
	r.engines[auctionId] = e
	return e, nil
}

func (r *Registry) load(ctx context.Context, auctionId string) (*Engine, *internal_error.InternalError) {
	auction, err := r.store.Auctions().FindAuctionById(ctx, auctionId)
	if err != nil {
		return nil, err
	}
	season, err := r.store.Seasons().FindSeasonById(ctx, auction.SeasonId)
	if err != nil {
		return nil, err
	}
	teamList, err := r.store.Teams().FindTeamsBySeasonId(ctx, auction.SeasonId)
	if err != nil {
		return nil, err
	}
	lotList, err := r.store.Lots().FindLotsByAuctionId(ctx, auctionId)
	if err != nil {
		return nil, err
	}
	latestSeq, err := r.store.Events().FindLatestSequence(ctx, auctionId)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:         r.store,
		clock:         r.clock,
		hub:           r.hub,
		logger:        r.logger,
		season:        *season,
		auction:       *auction,
		teams:         make(map[string]*team_entity.Team, len(teamList)),
		players:       make(map[string]player_entity.Player, len(lotList)),
		lots:          make(map[string]*lot_entity.Lot, len(lotList)),
		leaderByLot:   make(map[string]string, len(lotList)),
		rosterCount:   make(map[string]int, len(teamList)),
		overseasCount: make(map[string]int, len(teamList)),
		roleCount:     make(map[string]map[player_entity.Role]int, len(teamList)),
		sequence:      latestSeq,
		lotTimer:      lotctl.NewTimer(r.clock),
		interLotTimer: lotctl.NewTimer(r.clock),
	}

	for i := range teamList {
		team := teamList[i]
		e.teams[team.Id] = &team

		count, err := r.store.Rosters().CountByTeamId(ctx, team.Id)
		if err != nil {
			return nil, err
		}
		e.rosterCount[team.Id] = count

		overseas, err := r.store.Rosters().CountOverseasByTeamId(ctx, team.Id)
		if err != nil {
			return nil, err
		}
		e.overseasCount[team.Id] = overseas

		e.roleCount[team.Id] = make(map[player_entity.Role]int)
		for _, role := range []player_entity.Role{
			player_entity.Batsman, player_entity.Bowler, player_entity.AllRounder, player_entity.WicketKeeper,
		} {
			roleCount, err := r.store.Rosters().CountByTeamAndRole(ctx, team.Id, role)
			if err != nil {
				return nil, err
			}
			e.roleCount[team.Id][role] = roleCount
		}
	}

	ordered := sortLotsByOrder(lotList)
	e.lotOrder = make([]string, 0, len(ordered))
	for i := range ordered {
		lot := ordered[i]
		e.lots[lot.Id] = &lot
		e.lotOrder = append(e.lotOrder, lot.Id)

		player, err := r.store.Players().FindPlayerById(ctx, lot.PlayerId)
		if err != nil {
			return nil, err
		}
		e.players[lot.PlayerId] = *player

		if lot.Status == lot_entity.InProgress || lot.Status == lot_entity.Paused {
			if highest, err := r.store.Bids().FindHighestValidBid(ctx, lot.Id); err == nil && highest != nil {
				e.leaderByLot[lot.Id] = highest.TeamId
			}
		}
	}

	if auction.Status == auction_entity.InProgress && auction.CurrentLotId != nil {
		if lot, ok := e.lots[*auction.CurrentLotId]; ok && lot.Status == lot_entity.InProgress {
			e.armLotTimer(lot)
		}
	}

	return e, nil
}
