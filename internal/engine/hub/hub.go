// Package hub implements the Subscription Hub: per-auction
// fan-out of the event log to admin controllers, bidding clients, and
// viewers, with bounded buffers and a slow-consumer drop policy.
package hub

import (
	"sync"
	"sync/atomic"

	"github.com/auctioncore/auction-engine/configuration/logger"
	"github.com/auctioncore/auction-engine/internal/entity/event_entity"
	"go.uber.org/zap"
)

// Subscription is a live handle returned by Register. Callers drain
// Events() until it closes; Dropped reports whether closure was a
// slow-consumer eviction rather than a clean Unsubscribe.
type Subscription struct {
	id        int64
	auctionId string
	ch        chan event_entity.Event
	dropped   atomic.Bool
	hub       *Hub
}

func (s *Subscription) Events() <-chan event_entity.Event {
	return s.ch
}

func (s *Subscription) Dropped() bool {
	return s.dropped.Load()
}

// Close unsubscribes cleanly; in-flight buffered sends are simply
// discarded when a subscriber disconnects.
func (s *Subscription) Close() {
	s.hub.unregister(s.auctionId, s.id)
}

type topic struct {
	mu   sync.Mutex
	subs map[int64]*Subscription
}

// Hub holds one topic per auction. Its zero value is not usable; use New.
type Hub struct {
	bufferSize int
	mu         sync.Mutex
	topics     map[string]*topic
	nextID     atomic.Int64
}

func New(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Hub{bufferSize: bufferSize, topics: make(map[string]*topic)}
}

func (h *Hub) topicFor(auctionId string) *topic {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.topics[auctionId]
	if !ok {
		t = &topic{subs: make(map[int64]*Subscription)}
		h.topics[auctionId] = t
	}
	return t
}

// Register creates a new live subscription for an auction. Callers must
// hold the auction's serialization lock when calling Register so that no
// Publish can race between registration and a caller's own read of
// persisted history (the single-writer discipline gives delta sync
// its no-gap, no-duplicate guarantee for free).
func (h *Hub) Register(auctionId string) *Subscription {
	t := h.topicFor(auctionId)
	sub := &Subscription{
		id:        h.nextID.Add(1),
		auctionId: auctionId,
		ch:        make(chan event_entity.Event, h.bufferSize),
		hub:       h,
	}
	t.mu.Lock()
	t.subs[sub.id] = sub
	t.mu.Unlock()
	return sub
}

func (h *Hub) unregister(auctionId string, id int64) {
	t := h.topicFor(auctionId)
	t.mu.Lock()
	sub, ok := t.subs[id]
	if ok {
		delete(t.subs, id)
	}
	t.mu.Unlock()
	if ok {
		close(sub.ch)
	}
}

// Publish delivers event to every live subscriber of auctionId, in
// sequence order relative to other Publish calls (the caller is
// responsible for calling Publish only from within the per-auction
// serialization token). A subscriber whose buffer is full is dropped with
// a SlowConsumer signal rather than blocking the writer.
func (h *Hub) Publish(auctionId string, event event_entity.Event) {
	t := h.topicFor(auctionId)
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, sub := range t.subs {
		select {
		case sub.ch <- event:
		default:
			sub.dropped.Store(true)
			delete(t.subs, id)
			close(sub.ch)
			logger.Warn("dropping slow subscriber",
				zap.String("auction_id", auctionId),
				zap.Int64("sequence", event.Sequence))
		}
	}
}
