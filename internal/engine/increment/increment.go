// Package increment implements the Increment Schedule: the
// deterministic function mapping a lot's current price to the minimum
// amount the next bid must meet or exceed.
package increment

import "github.com/auctioncore/auction-engine/internal/entity/auction_entity"

// MinimumNextBid returns the minimum amount a bid against current must
// reach. Bands are half-open [Min, Max); a price at or above the highest
// band's Min uses that band's step: "if p exceeds the
// highest band, the step of the highest band is used" rule.
func MinimumNextBid(settings auction_entity.Settings, current int64) int64 {
	if settings.IncrementMode == auction_entity.IncrementFlat && settings.FlatIncrement > 0 {
		return current + settings.FlatIncrement
	}
	return current + stepFor(bandsOrDefault(settings.IncrementBands), current)
}

func bandsOrDefault(bands []auction_entity.IncrementBand) []auction_entity.IncrementBand {
	if len(bands) == 0 {
		return auction_entity.DefaultIncrementBands()
	}
	return bands
}

func stepFor(bands []auction_entity.IncrementBand, current int64) int64 {
	step := bands[len(bands)-1].Step
	for _, band := range bands {
		if current >= band.Min && (band.Max == 0 || current < band.Max) {
			return band.Step
		}
	}
	return step
}
