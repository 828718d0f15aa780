package lotctl

import (
	"testing"
	"time"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/auctioncore/auction-engine/internal/entity/lot_entity"
	"github.com/auctioncore/auction-engine/internal/engine/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settings() auction_entity.Settings {
	s := auction_entity.DefaultSettings()
	s.LotDurationMs = 30_000
	s.SoftCloseThresholdMs = 5_000
	s.SoftCloseExtensionMs = 10_000
	s.MaxExtensions = 2
	return s
}

func TestStart_SeedsPriceAndDeadline(t *testing.T) {
	lot := &lot_entity.Lot{Status: lot_entity.Queued}
	now := time.Now()

	err := Start(lot, 1_000_000, settings(), now)
	require.Nil(t, err)
	assert.Equal(t, lot_entity.InProgress, lot.Status)
	require.NotNil(t, lot.CurrentPrice)
	assert.Equal(t, int64(1_000_000), *lot.CurrentPrice)
	require.NotNil(t, lot.EndsAtUnixMs)
	assert.Equal(t, now.Add(30*time.Second).UnixMilli(), *lot.EndsAtUnixMs)
}

func TestStart_RejectsFromNonQueuedStatus(t *testing.T) {
	lot := &lot_entity.Lot{Status: lot_entity.Sold}
	err := Start(lot, 1_000_000, settings(), time.Now())
	assert.NotNil(t, err)
}

func TestApplyBid_ExtendsWithinSoftCloseWindow(t *testing.T) {
	now := time.Now()
	ends := now.Add(3 * time.Second).UnixMilli()
	lot := &lot_entity.Lot{Status: lot_entity.InProgress, EndsAtUnixMs: &ends}

	extended := ApplyBid(lot, settings(), 2_000_000, now)
	assert.True(t, extended)
	assert.Equal(t, 1, lot.ExtensionsUsed)
	assert.Equal(t, now.Add(10*time.Second).UnixMilli(), *lot.EndsAtUnixMs)
}

func TestApplyBid_NoExtensionOutsideWindow(t *testing.T) {
	now := time.Now()
	ends := now.Add(20 * time.Second).UnixMilli()
	lot := &lot_entity.Lot{Status: lot_entity.InProgress, EndsAtUnixMs: &ends}

	extended := ApplyBid(lot, settings(), 2_000_000, now)
	assert.False(t, extended)
	assert.Equal(t, 0, lot.ExtensionsUsed)
	assert.Equal(t, ends, *lot.EndsAtUnixMs)
}

func TestApplyBid_StopsExtendingPastMaxExtensions(t *testing.T) {
	now := time.Now()
	ends := now.Add(3 * time.Second).UnixMilli()
	lot := &lot_entity.Lot{Status: lot_entity.InProgress, EndsAtUnixMs: &ends, ExtensionsUsed: 2}

	extended := ApplyBid(lot, settings(), 2_000_000, now)
	assert.False(t, extended)
	assert.Equal(t, 2, lot.ExtensionsUsed)
}

func TestPauseResume_PreservesRemainingTime(t *testing.T) {
	now := time.Now()
	ends := now.Add(12 * time.Second).UnixMilli()
	lot := &lot_entity.Lot{Status: lot_entity.InProgress, EndsAtUnixMs: &ends}

	require.Nil(t, Pause(lot, now))
	assert.Equal(t, lot_entity.Paused, lot.Status)
	require.NotNil(t, lot.RemainingMs)
	assert.Equal(t, int64(12_000), *lot.RemainingMs)
	assert.Nil(t, lot.EndsAtUnixMs)

	resumeAt := now.Add(5 * time.Second)
	require.Nil(t, Resume(lot, resumeAt))
	assert.Equal(t, lot_entity.InProgress, lot.Status)
	require.NotNil(t, lot.EndsAtUnixMs)
	assert.Equal(t, resumeAt.Add(12*time.Second).UnixMilli(), *lot.EndsAtUnixMs)
}

func TestFinalize_Sold(t *testing.T) {
	lot := &lot_entity.Lot{Status: lot_entity.InProgress}
	teamId := "team-a"
	price := int64(5_000_000)

	require.Nil(t, Finalize(lot, &teamId, &price))
	assert.Equal(t, lot_entity.Sold, lot.Status)
	assert.Equal(t, &teamId, lot.WinnerTeamId)
	assert.Equal(t, &price, lot.FinalPrice)
	assert.Nil(t, lot.EndsAtUnixMs)
}

func TestFinalize_Unsold(t *testing.T) {
	lot := &lot_entity.Lot{Status: lot_entity.InProgress}

	require.Nil(t, Finalize(lot, nil, nil))
	assert.Equal(t, lot_entity.Unsold, lot.Status)
	assert.Nil(t, lot.WinnerTeamId)
}

func TestFinalize_RejectsFromTerminalStatus(t *testing.T) {
	lot := &lot_entity.Lot{Status: lot_entity.Sold}
	assert.NotNil(t, Finalize(lot, nil, nil))
}

func TestTimer_ScheduleCancelsPreviousDeadline(t *testing.T) {
	c := clock.NewManualClock(time.Now())
	timer := NewTimer(c)

	firstFired, secondFired := false, false
	timer.Schedule(5*time.Second, func() { firstFired = true })
	timer.Schedule(5*time.Second, func() { secondFired = true })

	c.Advance(5 * time.Second)
	assert.False(t, firstFired)
	assert.True(t, secondFired)
}

func TestTimer_CancelIsIdempotent(t *testing.T) {
	c := clock.NewManualClock(time.Now())
	timer := NewTimer(c)
	timer.Schedule(time.Second, func() {})
	timer.Cancel()
	timer.Cancel()
}
