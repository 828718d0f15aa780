// Package repo composes the per-entity repository interfaces into a
// single Store the engine core depends on, plus the transaction boundary
// multi-entity writes (lot finalization, in particular) need.
package repo

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/bid_entity"
	"github.com/auctioncore/auction-engine/internal/entity/budget_entity"
	"github.com/auctioncore/auction-engine/internal/entity/event_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/entity/player_entity"
	"github.com/auctioncore/auction-engine/internal/entity/roster_entity"
	"github.com/auctioncore/auction-engine/internal/entity/season_entity"
	"github.com/auctioncore/auction-engine/internal/entity/team_entity"
	"github.com/auctioncore/auction-engine/internal/internal_error"
)

// Store is the aggregate persistence contract the engine core depends on.
// It never depends on Mongo directly; infra/database provides the
// concrete implementation wired in cmd/auction/main.go.
type Store interface {
	Seasons() season_entity.SeasonRepositoryInterface
	Teams() team_entity.TeamRepositoryInterface
	Players() player_entity.PlayerRepositoryInterface
	Auctions() auction_entity.AuctionRepositoryInterface
	Lots() lot_entity.LotRepositoryInterface
	Bids() bid_entity.BidEntityRepository
	Rosters() roster_entity.RosterRepositoryInterface
	Events() event_entity.EventRepositoryInterface
	BudgetTransactions() budget_entity.BudgetTransactionRepositoryInterface

	// WithinTransaction runs fn with a context bound to a single underlying
	// transaction/session; every repository call made through ctx inside
	// fn commits or rolls back together. The Engine uses this to make a
	// lot's finalization writes (lot update, roster entry, budget delta,
	// budget transaction) a single atomic unit; the finalization event is
	// appended after the transaction commits, outside it.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) *internal_error.InternalError
}
