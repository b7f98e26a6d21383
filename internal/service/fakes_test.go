package service

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"lunalog/internal/cache"
	"lunalog/internal/model"
	"lunalog/internal/scoring"
)

type fakeStore struct {
	mu         sync.Mutex
	persistErr error
	fetchErr   error
	entries    []model.JournalEntry
	persisted  []model.JournalEntry
	nextID     int64
}

func (f *fakeStore) Persist(_ context.Context, entry *model.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.persistErr != nil {
		return f.persistErr
	}
	f.nextID++
	entry.EntryID = f.nextID
	f.persisted = append(f.persisted, *entry)
	return nil
}

func (f *fakeStore) FetchAll(context.Context) ([]model.JournalEntry, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.entries, nil
}

type fakeEnricher struct {
	err   error
	calls int
}

func (f *fakeEnricher) Trigger(context.Context) error {
	f.calls++
	return f.err
}

type fakeGuard struct {
	states   map[string]cache.ClaimResult
	err      error
	released []string
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{states: map[string]cache.ClaimResult{}}
}

func (g *fakeGuard) Claim(_ context.Context, id string) (cache.ClaimResult, error) {
	if g.err != nil {
		return cache.ClaimAcquired, g.err
	}
	if state, ok := g.states[id]; ok {
		return state, nil
	}
	g.states[id] = cache.ClaimPending
	return cache.ClaimAcquired, nil
}

func (g *fakeGuard) MarkStored(_ context.Context, id string) error {
	g.states[id] = cache.ClaimStored
	return nil
}

func (g *fakeGuard) Release(_ context.Context, id string) error {
	delete(g.states, id)
	g.released = append(g.released, id)
	return nil
}

type recordedEvent struct {
	Type    string
	Payload interface{}
}

type recordingBroadcaster struct {
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(eventType string, payload interface{}) {
	b.events = append(b.events, recordedEvent{Type: eventType, Payload: payload})
}

func (b *recordingBroadcaster) types() []string {
	out := make([]string, len(b.events))
	for i, e := range b.events {
		out[i] = e.Type
	}
	return out
}

func referenceEngine(t *testing.T) *scoring.Engine {
	t.Helper()
	engine, err := scoring.NewEngine(scoring.Weights{4, 1, 4, 4, 2, 2, 2, 1, 1, 4}, scoring.NewInversionSet(2))
	require.NoError(t, err)
	return engine
}

func testMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
