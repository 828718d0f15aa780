package engine

import (
	"context"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/engine/repo"
	"github.com/auctioncore/auction-engine/internal/internal_error"
)

// InitializeAuction creates the Auction row and one QUEUED Lot per
// playerId, in the given order, as a single persisted unit. The auction
// is NOT_STARTED and has no resident Engine until StartAuction is called
// through the Registry, which loads it from the Store.
func InitializeAuction(ctx context.Context, store repo.Store, seasonId string, settings auction_entity.Settings, playerIds []string) (*auction_entity.Auction, *internal_error.InternalError) {
	auction, err := auction_entity.CreateAuctionBody(seasonId, settings)
	if err != nil {
		return nil, err
	}
	if len(playerIds) == 0 {
		return nil, internal_error.NewInvalidInputError("an auction needs at least one player")
	}

	lots := make([]*lot_entity.Lot, 0, len(playerIds))
	for i, playerId := range playerIds {
		lot, err := lot_entity.CreateLot(auction.Id, playerId, i)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}

	txErr := store.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := store.Auctions().CreateAuction(txCtx, auction); err != nil {
			return err
		}
		for _, lot := range lots {
			if err := store.Lots().CreateLot(txCtx, lot); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return auction, nil
}
