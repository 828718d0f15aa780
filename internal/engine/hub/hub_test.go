package hub

import (
	"testing"

	"github.com/auctioncore/auction-engine/internal/entity/event_entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_DeliversToLiveSubscriber(t *testing.T) {
	h := New(4)
	sub := h.Register("auction-1")

	h.Publish("auction-1", event_entity.Event{Sequence: 1})

	select {
	case e := <-sub.Events():
		assert.Equal(t, int64(1), e.Sequence)
	default:
		t.Fatal("expected an event to be delivered")
	}
}

func TestPublish_DoesNotCrossTopics(t *testing.T) {
	h := New(4)
	subA := h.Register("auction-a")
	h.Register("auction-b")

	h.Publish("auction-b", event_entity.Event{Sequence: 1})

	select {
	case <-subA.Events():
		t.Fatal("subscriber for auction-a should not receive auction-b's event")
	default:
	}
}

func TestClose_UnregistersAndClosesChannel(t *testing.T) {
	h := New(4)
	sub := h.Register("auction-1")
	sub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)
	assert.False(t, sub.Dropped())
}

func TestPublish_DropsSlowConsumerWhenBufferFull(t *testing.T) {
	h := New(1)
	sub := h.Register("auction-1")

	h.Publish("auction-1", event_entity.Event{Sequence: 1})
	h.Publish("auction-1", event_entity.Event{Sequence: 2})

	first := <-sub.Events()
	assert.Equal(t, int64(1), first.Sequence)

	_, ok := <-sub.Events()
	require.False(t, ok)
	assert.True(t, sub.Dropped())
}

func TestPublish_AfterDropDoesNotPanic(t *testing.T) {
	h := New(1)
	sub := h.Register("auction-1")
	h.Publish("auction-1", event_entity.Event{Sequence: 1})
	h.Publish("auction-1", event_entity.Event{Sequence: 2})
	assert.NotPanics(t, func() {
		h.Publish("auction-1", event_entity.Event{Sequence: 3})
	})
	_ = sub
}
