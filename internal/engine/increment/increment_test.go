package increment

import (
	"testing"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/stretchr/testify/assert"
)

func TestMinimumNextBid_Banded(t *testing.T) {
	settings := auction_entity.DefaultSettings()

	assert.Equal(t, int64(100_000), MinimumNextBid(settings, 0))
	assert.Equal(t, int64(1_900_000+100_000), MinimumNextBid(settings, 1_900_000))
	assert.Equal(t, int64(2_000_000+250_000), MinimumNextBid(settings, 2_000_000))
	assert.Equal(t, int64(50_000_000+2_500_000), MinimumNextBid(settings, 50_000_000))
}

func TestMinimumNextBid_PastHighestBandUsesHighestStep(t *testing.T) {
	settings := auction_entity.DefaultSettings()

	got := MinimumNextBid(settings, 500_000_000)
	assert.Equal(t, int64(500_000_000+2_500_000), got)
}

func TestMinimumNextBid_FlatMode(t *testing.T) {
	settings := auction_entity.DefaultSettings()
	settings.IncrementMode = auction_entity.IncrementFlat
	settings.FlatIncrement = 50_000

	assert.Equal(t, int64(150_000), MinimumNextBid(settings, 100_000))
}

func TestMinimumNextBid_FallsBackToBandedWhenFlatIncrementUnset(t *testing.T) {
	settings := auction_entity.DefaultSettings()
	settings.IncrementMode = auction_entity.IncrementFlat
	settings.FlatIncrement = 0

	got := MinimumNextBid(settings, 0)
	assert.Equal(t, int64(100_000), got)
}

func TestMinimumNextBid_EmptyBandsFallsBackToDefaults(t *testing.T) {
	settings := auction_entity.DefaultSettings()
	settings.IncrementBands = nil

	got := MinimumNextBid(settings, 0)
	assert.Equal(t, int64(100_000), got)
}
