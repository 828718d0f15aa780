package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/bid_entity"
	"github.com/auctioncore/auction-engine/internal/entity/budget_entity"
	"github.com/auctioncore/auction-engine/internal/entity/event_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/entity/roster_entity"
	"github.com/auctioncore/auction-engine/internal/entity/season_entity"
	"github.com/auctioncore/auction-engine/internal/entity/team_entity"
	"github.com/auctioncore/auction-engine/internal/engine"
	"github.com/auctioncore/auction-engine/internal/engine/clock"
	"github.com/auctioncore/auction-engine/internal/engine/hub"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is a minimal in-memory repo.Store for exercising the Engine
// Facade end to end without a real MongoDB instance.
type memStore struct {
	mu sync.Mutex

	seasons  map[string]*season_entity.Season
	teams    map[string]*team_entity.Team
	players  map[string]*player_entity.Player
	auctions map[string]*auction_entity.Auction
	lots     map[string]*lot_entity.Lot
	bids     map[string][]bid_entity.Bid
	rosters  map[string][]roster_entity.RosterEntry
	events   map[string][]event_entity.Event
	budgets  []budget_entity.BudgetTransaction
}

func newMemStore() *memStore {
	return &memStore{
		seasons:  map[string]*season_entity.Season{},
		teams:    map[string]*team_entity.Team{},
		players:  map[string]*player_entity.Player{},
		auctions: map[string]*auction_entity.Auction{},
		lots:     map[string]*lot_entity.Lot{},
		bids:     map[string][]bid_entity.Bid{},
		rosters:  map[string][]roster_entity.RosterEntry{},
		events:   map[string][]event_entity.Event{},
	}
}

func (s *memStore) Seasons() season_entity.SeasonRepositoryInterface                   { return seasonRepo{s} }
func (s *memStore) Teams() team_entity.TeamRepositoryInterface                         { return teamRepo{s} }
func (s *memStore) Players() player_entity.PlayerRepositoryInterface                   { return playerRepo{s} }
func (s *memStore) Auctions() auction_entity.AuctionRepositoryInterface                { return auctionRepo{s} }
func (s *memStore) Lots() lot_entity.LotRepositoryInterface                           { return lotRepo{s} }
func (s *memStore) Bids() bid_entity.BidEntityRepository                              { return bidRepo{s} }
func (s *memStore) Rosters() roster_entity.RosterRepositoryInterface                   { return rosterRepo{s} }
func (s *memStore) Events() event_entity.EventRepositoryInterface                      { return eventRepo{s} }
func (s *memStore) BudgetTransactions() budget_entity.BudgetTransactionRepositoryInterface {
	return budgetRepo{s}
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) *internal_error.InternalError {
	if err := fn(ctx); err != nil {
		if ie, ok := err.(*internal_error.InternalError); ok {
			return ie
		}
		return internal_error.NewInternalServerError(err.Error())
	}
	return nil
}

type seasonRepo struct{ s *memStore }

func (r seasonRepo) CreateSeason(_ context.Context, season *season_entity.Season) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seasons[season.Id] = season
	return nil
}

func (r seasonRepo) FindSeasonById(_ context.Context, id string) (*season_entity.Season, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	season, ok := r.s.seasons[id]
	if !ok {
		return nil, internal_error.NewNotFoundError("season not found")
	}
	return season, nil
}

type teamRepo struct{ s *memStore }

func (r teamRepo) CreateTeam(_ context.Context, team *team_entity.Team) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.teams[team.Id] = team
	return nil
}

func (r teamRepo) FindTeamById(_ context.Context, id string) (*team_entity.Team, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[id]
	if !ok {
		return nil, internal_error.NewTeamNotFoundError("team not found")
	}
	return team, nil
}

func (r teamRepo) FindTeamsBySeasonId(_ context.Context, seasonId string) ([]team_entity.Team, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []team_entity.Team
	for _, t := range r.s.teams {
		if t.SeasonId == seasonId {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r teamRepo) ApplyBudgetDelta(_ context.Context, teamId string, delta int64) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team, ok := r.s.teams[teamId]
	if !ok {
		return internal_error.NewTeamNotFoundError("team not found")
	}
	spent := team.BudgetSpent + delta
	if spent < 0 || spent > team.BudgetTotal {
		return internal_error.NewInsufficientBudgetError("budget delta out of range", team.Remaining())
	}
	team.BudgetSpent = spent
	return nil
}

type playerRepo struct{ s *memStore }

func (r playerRepo) CreatePlayer(_ context.Context, player *player_entity.Player) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.players[player.Id] = player
	return nil
}

func (r playerRepo) FindPlayerById(_ context.Context, id string) (*player_entity.Player, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	player, ok := r.s.players[id]
	if !ok {
		return nil, internal_error.NewNotFoundError("player not found")
	}
	return player, nil
}

type auctionRepo struct{ s *memStore }

func (r auctionRepo) CreateAuction(_ context.Context, auction *auction_entity.Auction) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.auctions[auction.Id] = auction
	return nil
}

func (r auctionRepo) FindAuctionById(_ context.Context, id string) (*auction_entity.Auction, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	auction, ok := r.s.auctions[id]
	if !ok {
		return nil, internal_error.NewAuctionNotFoundError("auction not found")
	}
	return auction, nil
}

func (r auctionRepo) FindAllAuctions(_ context.Context, status auction_entity.Status, seasonId string) ([]auction_entity.Auction, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []auction_entity.Auction
	for _, a := range r.s.auctions {
		if a.SeasonId == seasonId && a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r auctionRepo) UpdateAuctionState(_ context.Context, id string, status auction_entity.Status, currentLotId *string) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	auction, ok := r.s.auctions[id]
	if !ok {
		return internal_error.NewAuctionNotFoundError("auction not found")
	}
	auction.Status = status
	auction.CurrentLotId = currentLotId
	return nil
}

type lotRepo struct{ s *memStore }

func (r lotRepo) CreateLot(_ context.Context, lot *lot_entity.Lot) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lots[lot.Id] = lot
	return nil
}

func (r lotRepo) FindLotById(_ context.Context, id string) (*lot_entity.Lot, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, internal_error.NewLotNotFoundError("lot not found")
	}
	return lot, nil
}

func (r lotRepo) FindLotsByAuctionId(_ context.Context, auctionId string) ([]lot_entity.Lot, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []lot_entity.Lot
	for _, l := range r.s.lots {
		if l.AuctionId == auctionId {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r lotRepo) FindNextQueuedLot(_ context.Context, auctionId string) (*lot_entity.Lot, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *lot_entity.Lot
	for _, l := range r.s.lots {
		if l.AuctionId != auctionId || l.Status != lot_entity.Queued {
			continue
		}
		if best == nil || l.Order < best.Order {
			best = l
		}
	}
	return best, nil
}

func (r lotRepo) UpdateLot(_ context.Context, lot *lot_entity.Lot) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *lot
	r.s.lots[lot.Id] = &cp
	return nil
}

type bidRepo struct{ s *memStore }

func (r bidRepo) CreateBid(_ context.Context, bid *bid_entity.Bid) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.bids[bid.LotId] = append(r.s.bids[bid.LotId], *bid)
	return nil
}

func (r bidRepo) FindBidsByLotId(_ context.Context, lotId string) ([]bid_entity.Bid, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.bids[lotId], nil
}

func (r bidRepo) FindHighestValidBid(_ context.Context, lotId string) (*bid_entity.Bid, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *bid_entity.Bid
	for i, b := range r.s.bids[lotId] {
		if !b.Valid {
			continue
		}
		if best == nil || b.Amount > best.Amount {
			best = &r.s.bids[lotId][i]
		}
	}
	return best, nil
}

type rosterRepo struct{ s *memStore }

func (r rosterRepo) CreateRosterEntry(_ context.Context, entry *roster_entity.RosterEntry) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rosters[entry.TeamId] = append(r.s.rosters[entry.TeamId], *entry)
	return nil
}

func (r rosterRepo) FindRosterByTeamId(_ context.Context, teamId string) ([]roster_entity.RosterEntry, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.rosters[teamId], nil
}

func (r rosterRepo) CountByTeamId(_ context.Context, teamId string) (int, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.rosters[teamId]), nil
}

func (r rosterRepo) CountByTeamAndRole(_ context.Context, teamId string, role player_entity.Role) (int, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, entry := range r.s.rosters[teamId] {
		if player, ok := r.s.players[entry.PlayerId]; ok && player.Role == role {
			count++
		}
	}
	return count, nil
}

func (r rosterRepo) CountOverseasByTeamId(_ context.Context, teamId string) (int, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, entry := range r.s.rosters[teamId] {
		if player, ok := r.s.players[entry.PlayerId]; ok && player.IsOverseas {
			count++
		}
	}
	return count, nil
}

type eventRepo struct{ s *memStore }

func (r eventRepo) AppendEvent(_ context.Context, event *event_entity.Event) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events[event.AuctionId] = append(r.s.events[event.AuctionId], *event)
	return nil
}

func (r eventRepo) FindEventsSince(_ context.Context, auctionId string, fromSequence int64) ([]event_entity.Event, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []event_entity.Event
	for _, e := range r.s.events[auctionId] {
		if e.Sequence > fromSequence {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r eventRepo) FindLatestSequence(_ context.Context, auctionId string) (int64, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var max int64
	for _, e := range r.s.events[auctionId] {
		if e.Sequence > max {
			max = e.Sequence
		}
	}
	return max, nil
}

type budgetRepo struct{ s *memStore }

func (r budgetRepo) CreateBudgetTransaction(_ context.Context, tx *budget_entity.BudgetTransaction) *internal_error.InternalError {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.budgets = append(r.s.budgets, *tx)
	return nil
}

func (r budgetRepo) FindByTeamId(_ context.Context, teamId string) ([]budget_entity.BudgetTransaction, *internal_error.InternalError) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []budget_entity.BudgetTransaction
	for _, tx := range r.s.budgets {
		if tx.TeamId == teamId {
			out = append(out, tx)
		}
	}
	return out, nil
}

// --- test fixtures ---

type fixture struct {
	store    *memStore
	manual   *clock.ManualClock
	registry *engine.Registry
	seasonId string
	teamA    string
	teamB    string
	auction  *auction_entity.Auction
}

func setup(t *testing.T, playerCount int) *fixture {
	t.Helper()
	store := newMemStore()
	manual := clock.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	h := hub.New(16)
	registry := engine.NewRegistry(store, manual, h, zap.NewNop())

	season, err := season_entity.CreateSeason("2026 League", season_entity.DefaultRosterRules(), 100_000_000)
	require.Nil(t, err)
	require.Nil(t, store.Seasons().CreateSeason(context.Background(), season))

	teamA, err := team_entity.CreateTeam(season.Id, "Team A", 50_000_000)
	require.Nil(t, err)
	require.Nil(t, store.Teams().CreateTeam(context.Background(), teamA))

	teamB, err := team_entity.CreateTeam(season.Id, "Team B", 50_000_000)
	require.Nil(t, err)
	require.Nil(t, store.Teams().CreateTeam(context.Background(), teamB))

	playerIds := make([]string, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		player, err := player_entity.CreatePlayer(season.Id, "Player", player_entity.Batsman, false, 1_000_000)
		require.Nil(t, err)
		require.Nil(t, store.Players().CreatePlayer(context.Background(), player))
		playerIds = append(playerIds, player.Id)
	}

	settings := auction_entity.DefaultSettings()
	settings.LotDurationMs = 30_000
	settings.SoftCloseThresholdMs = 5_000
	settings.SoftCloseExtensionMs = 10_000
	settings.InterLotGapMs = 2_000

	auction, ierr := engine.InitializeAuction(context.Background(), store, season.Id, settings, playerIds)
	require.Nil(t, ierr)

	return &fixture{
		store:    store,
		manual:   manual,
		registry: registry,
		seasonId: season.Id,
		teamA:    teamA.Id,
		teamB:    teamB.Id,
		auction:  auction,
	}
}

func TestEngine_StraightSaleFlow(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)

	require.Nil(t, e.StartAuction(ctx))

	snap := e.Snapshot()
	require.Len(t, snap.Lots, 1)
	lotId := snap.Lots[0].Id
	assert.Equal(t, lot_entity.InProgress, snap.Lots[0].Status)

	require.Nil(t, e.PlaceBid(ctx, engine.PlaceBidInput{LotId: lotId, TeamId: f.teamA, Amount: 1_100_000}))

	f.manual.Advance(31 * time.Second)

	snap = e.Snapshot()
	assert.Equal(t, lot_entity.Sold, snap.Lots[0].Status)
	assert.Equal(t, f.teamA, *snap.Lots[0].WinnerTeamId)
	assert.Equal(t, int64(1_100_000), *snap.Lots[0].FinalPrice)

	team, ierr := f.store.Teams().FindTeamById(ctx, f.teamA)
	require.Nil(t, ierr)
	assert.Equal(t, int64(1_100_000), team.BudgetSpent)

	roster, ierr := f.store.Rosters().FindRosterByTeamId(ctx, f.teamA)
	require.Nil(t, ierr)
	assert.Len(t, roster, 1)
}

func TestEngine_SoftCloseExtendsDeadline(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)
	require.Nil(t, e.StartAuction(ctx))

	lotId := e.Snapshot().Lots[0].Id

	f.manual.Advance(27 * time.Second) // inside the 5s soft-close window
	require.Nil(t, e.PlaceBid(ctx, engine.PlaceBidInput{LotId: lotId, TeamId: f.teamA, Amount: 1_100_000}))

	snap := e.Snapshot()
	assert.Equal(t, 1, snap.Lots[0].ExtensionsUsed)
	assert.Equal(t, lot_entity.InProgress, snap.Lots[0].Status)

	f.manual.Advance(9 * time.Second)
	assert.Equal(t, lot_entity.InProgress, e.Snapshot().Lots[0].Status)

	f.manual.Advance(4 * time.Second)
	assert.Equal(t, lot_entity.Sold, e.Snapshot().Lots[0].Status)
}

func TestEngine_RejectsBidBelowMinimumIncrement(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)
	require.Nil(t, e.StartAuction(ctx))

	lotId := e.Snapshot().Lots[0].Id
	ierr := e.PlaceBid(ctx, engine.PlaceBidInput{LotId: lotId, TeamId: f.teamA, Amount: 1_000_001})
	require.NotNil(t, ierr)
	assert.Equal(t, "BelowIncrement", ierr.Kind)
}

func TestEngine_ForceSellAwardsLeader(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)
	require.Nil(t, e.StartAuction(ctx))

	lotId := e.Snapshot().Lots[0].Id
	require.Nil(t, e.PlaceBid(ctx, engine.PlaceBidInput{LotId: lotId, TeamId: f.teamB, Amount: 1_100_000}))
	require.Nil(t, e.ForceSell(ctx, lotId, ""))

	snap := e.Snapshot()
	assert.Equal(t, lot_entity.Sold, snap.Lots[0].Status)
	assert.Equal(t, f.teamB, *snap.Lots[0].WinnerTeamId)
}

func TestEngine_MarkUnsoldWithNoLeader(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)
	require.Nil(t, e.StartAuction(ctx))

	lotId := e.Snapshot().Lots[0].Id
	require.Nil(t, e.MarkUnsold(ctx, lotId, ""))

	assert.Equal(t, lot_entity.Unsold, e.Snapshot().Lots[0].Status)
}

func TestEngine_PauseResumePreservesRemainingTime(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)
	require.Nil(t, e.StartAuction(ctx))

	lotId := e.Snapshot().Lots[0].Id
	require.Nil(t, e.PlaceBid(ctx, engine.PlaceBidInput{LotId: lotId, TeamId: f.teamA, Amount: 1_100_000}))

	f.manual.Advance(10 * time.Second)
	require.Nil(t, e.PauseAuction(ctx, ""))
	assert.Nil(t, e.Snapshot().Lots[0].EndsAtUnixMs)

	f.manual.Advance(1 * time.Hour) // paused: no timers should fire
	assert.Equal(t, lot_entity.Paused, e.Snapshot().Lots[0].Status)

	require.Nil(t, e.ResumeAuction(ctx, ""))
	require.NotNil(t, e.Snapshot().Lots[0].EndsAtUnixMs)

	f.manual.Advance(19 * time.Second)
	assert.Equal(t, lot_entity.InProgress, e.Snapshot().Lots[0].Status)
	f.manual.Advance(1 * time.Second)
	assert.Equal(t, lot_entity.Sold, e.Snapshot().Lots[0].Status)
}

func TestEngine_AdvancesThroughMultipleLotsThenEnds(t *testing.T) {
	f := setup(t, 2)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)
	require.Nil(t, e.StartAuction(ctx))

	firstLotId := e.Snapshot().Lots[0].Id
	require.Nil(t, e.MarkUnsold(ctx, firstLotId, ""))

	f.manual.Advance(2 * time.Second) // inter-lot gap
	snap := e.Snapshot()
	assert.Equal(t, lot_entity.InProgress, snap.Lots[1].Status)

	secondLotId := snap.Lots[1].Id
	require.Nil(t, e.MarkUnsold(ctx, secondLotId, ""))
	f.manual.Advance(2 * time.Second)

	snap = e.Snapshot()
	assert.Equal(t, auction_entity.Completed, snap.Auction.Status)
}

func TestEngine_SubscribeDeltaSyncHasNoGapOrDuplicate(t *testing.T) {
	f := setup(t, 1)
	ctx := context.Background()

	e, err := f.registry.Get(ctx, f.auction.Id)
	require.Nil(t, err)
	require.Nil(t, e.StartAuction(ctx))

	sub, history, ierr := e.Subscribe(ctx, 0)
	require.Nil(t, ierr)
	defer sub.Close()

	lotId := e.Snapshot().Lots[0].Id
	require.Nil(t, e.PlaceBid(ctx, engine.PlaceBidInput{LotId: lotId, TeamId: f.teamA, Amount: 1_100_000}))

	var live []event_entity.Event
	for i := 0; i < 1; i++ {
		select {
		case ev := <-sub.Events():
			live = append(live, ev)
		case <-time.After(time.Second):
			t.Fatal("expected a live event")
		}
	}

	seen := map[int64]bool{}
	for _, ev := range history {
		assert.False(t, seen[ev.Sequence], "duplicate sequence in history")
		seen[ev.Sequence] = true
	}
	for _, ev := range live {
		assert.False(t, seen[ev.Sequence], "live event duplicates history")
		seen[ev.Sequence] = true
	}
	for seq := int64(1); seq <= int64(len(seen)); seq++ {
		assert.True(t, seen[seq], "gap in sequence")
	}
}
