// Package store wires every per-entity Mongo repository into the
// repo.Store aggregate the engine core depends on, and implements
// WithinTransaction with a Mongo client session so a lot's finalization
// writes (lot update, roster entry, budget delta, budget transaction)
// commit or roll back together.
package store

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
	"github.com/auctioncore/auction-engine/internal/infra/database/auction"
	"github.com/auctioncore/auction-engine/internal/infra/database/bid"
	"github.com/auctioncore/auction-engine/internal/infra/database/budget"
	"github.com/auctioncore/auction-engine/internal/infra/database/event"
	"github.com/auctioncore/auction-engine/internal/infra/database/lot"
	"github.com/auctioncore/auction-engine/internal/infra/database/player"
	"github.com/auctioncore/auction-engine/internal/infra/database/roster"
	"github.com/auctioncore/auction-engine/internal/infra/database/season"
	"github.com/auctioncore/auction-engine/internal/infra/database/team"
	"github.com/auctioncore/auction-engine/internal/internal_error"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is the concrete repo.Store backed by MongoDB.
type Store struct {
	client *mongo.Client

	seasons  *season.SeasonRepository
	teams    *team.TeamRepository
	players  *player.PlayerRepository
	auctions *auction.AuctionRepository
	lots     *lot.LotRepository
	bids     *bid.BidRepository
	rosters  *roster.RosterRepository
	events   *event.EventRepository
	budgets  *budget.BudgetTransactionRepository
}

func New(client *mongo.Client, database *mongo.Database) *Store {
	return &Store{
		client:   client,
		seasons:  season.NewSeasonRepository(database),
		teams:    team.NewTeamRepository(database),
		players:  player.NewPlayerRepository(database),
		auctions: auction.NewAuctionRepository(database),
		lots:     lot.NewLotRepository(database),
		bids:     bid.NewBidRepository(database),
		rosters:  roster.NewRosterRepository(database),
		events:   event.NewEventRepository(database),
		budgets:  budget.NewBudgetTransactionRepository(database),
	}
}

func (s *Store) Seasons() season_entity.SeasonRepositoryInterface           { return s.seasons }
func (s *Store) Teams() team_entity.TeamRepositoryInterface                { return s.teams }
func (s *Store) Players() player_entity.PlayerRepositoryInterface          { return s.players }
func (s *Store) Auctions() auction_entity.AuctionRepositoryInterface       { return s.auctions }
func (s *Store) Lots() lot_entity.LotRepositoryInterface                   { return s.lots }
func (s *Store) Bids() bid_entity.BidEntityRepository                      { return s.bids }
func (s *Store) Rosters() roster_entity.RosterRepositoryInterface          { return s.rosters }
func (s *Store) Events() event_entity.EventRepositoryInterface             { return s.events }
func (s *Store) BudgetTransactions() budget_entity.BudgetTransactionRepositoryInterface {
	return s.budgets
}

// WithinTransaction runs fn inside a Mongo session transaction. Every
// repository call made with the ctx fn receives joins that transaction,
// since the Mongo driver keys a session off the context it is given.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) *internal_error.InternalError {
	session, err := s.client.StartSession()
	if err != nil {
		return internal_error.NewInternalServerError("error trying to start a database session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})
	if err != nil {
		if ie, ok := err.(*internal_error.InternalError); ok {
			return ie
		}
		return internal_error.NewInternalServerError("error trying to commit transaction")
	}
	return nil
}
