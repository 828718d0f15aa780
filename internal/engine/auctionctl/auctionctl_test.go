package auctionctl

import (
	"testing"

	"github.com/auctioncore/auction-engine/internal/entity/auction_entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_FromNotStarted(t *testing.T) {
	a := &auction_entity.Auction{Status: auction_entity.NotStarted}
	require.Nil(t, Start(a))
	assert.Equal(t, auction_entity.InProgress, a.Status)
}

func TestStart_RejectsFromInProgress(t *testing.T) {
	a := &auction_entity.Auction{Status: auction_entity.InProgress}
	assert.NotNil(t, Start(a))
}

func TestPauseResume_RoundTrip(t *testing.T) {
	a := &auction_entity.Auction{Status: auction_entity.InProgress}
	require.Nil(t, Pause(a))
	assert.Equal(t, auction_entity.Paused, a.Status)

	require.Nil(t, Resume(a))
	assert.Equal(t, auction_entity.InProgress, a.Status)
}

func TestEnd_ClearsCurrentLot(t *testing.T) {
	lotId := "lot-1"
	a := &auction_entity.Auction{Status: auction_entity.InProgress, CurrentLotId: &lotId}
	require.Nil(t, End(a))
	assert.Equal(t, auction_entity.Completed, a.Status)
	assert.Nil(t, a.CurrentLotId)
}

func TestEnd_LegalFromPaused(t *testing.T) {
	a := &auction_entity.Auction{Status: auction_entity.Paused}
	require.Nil(t, End(a))
	assert.Equal(t, auction_entity.Completed, a.Status)
}

func TestEnd_RejectsFromNotStarted(t *testing.T) {
	a := &auction_entity.Auction{Status: auction_entity.NotStarted}
	assert.NotNil(t, End(a))
}

func TestSetCurrentLot(t *testing.T) {
	a := &auction_entity.Auction{Status: auction_entity.InProgress}
	lotId := "lot-1"
	SetCurrentLot(a, &lotId)
	assert.Equal(t, &lotId, a.CurrentLotId)

	SetCurrentLot(a, nil)
	assert.Nil(t, a.CurrentLotId)
}
