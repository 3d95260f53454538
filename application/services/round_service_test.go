package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/domain/core/entities"
)

type recordedMatch struct {
	generation uint64
	person     uint64
	partner    *uint64
}

// fakeMatchStore is an in-memory MatchStore recording every write, with
// optional failure injection per operation.
type fakeMatchStore struct {
	waiters []uint64
	edges   []ports.WeightedEdge
	failOn  string

	generations []uint64
	recorded    []recordedMatch
	cleared     []uint64
}

var errInjected = errors.New("injected store failure")

func (f *fakeMatchStore) ListWaiters(ctx context.Context) ([]uint64, error) {
	if f.failOn == "waiters" {
		return nil, errInjected
	}
	return append([]uint64(nil), f.waiters...), nil
}

func (f *fakeMatchStore) EdgesAmong(ctx context.Context, ids []uint64) ([]ports.WeightedEdge, error) {
	if f.failOn == "edges" {
		return nil, errInjected
	}
	within := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		within[id] = true
	}
	var out []ports.WeightedEdge
	for _, e := range f.edges {
		if within[e.A] && within[e.B] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeMatchStore) AllocateGeneration(ctx context.Context) (entities.Generation, error) {
	if f.failOn == "generation" {
		return entities.Generation{}, errInjected
	}
	next := uint64(len(f.generations) + 1)
	f.generations = append(f.generations, next)
	return entities.Generation{ID: next, Time: time.Now()}, nil
}

func (f *fakeMatchStore) RecordMatch(ctx context.Context, generation uint64, person uint64, partner *uint64) error {
	if f.failOn == "record" {
		return errInjected
	}
	f.recorded = append(f.recorded, recordedMatch{generation: generation, person: person, partner: partner})
	return nil
}

func (f *fakeMatchStore) ClearWaiting(ctx context.Context, id uint64) error {
	if f.failOn == "clear" {
		return errInjected
	}
	f.cleared = append(f.cleared, id)
	return nil
}

func newRoundService(store ports.MatchStore) *RoundService {
	return NewRoundService(store, zap.NewNop())
}

func TestRunRoundEmptyWaitingPoolIsNoOp(t *testing.T) {
	store := &fakeMatchStore{}
	svc := newRoundService(store)

	summary, err := svc.RunRound(context.Background())

	require.NoError(t, err)
	assert.True(t, summary.Empty())
	assert.Empty(t, store.generations)
	assert.Empty(t, store.recorded)
	assert.Empty(t, store.cleared)
}

func TestRunRoundPairsEveryWaiter(t *testing.T) {
	store := &fakeMatchStore{waiters: []uint64{40, 10, 30, 20}}
	svc := newRoundService(store)

	summary, err := svc.RunRound(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(1), summary.Generation)
	// Waiters are sorted before index assignment, and with no history
	// the greedy pass pairs adjacent indices.
	assert.Equal(t, [][2]uint64{{10, 20}, {30, 40}}, summary.Pairs)
	assert.Nil(t, summary.Singleton)
	assert.ElementsMatch(t, []uint64{10, 20, 30, 40}, store.cleared)
	require.Len(t, store.recorded, 2)
	for _, rec := range store.recorded {
		assert.Equal(t, uint64(1), rec.generation)
		assert.NotNil(t, rec.partner)
	}
}

func TestRunRoundOddCountRecordsSingleton(t *testing.T) {
	store := &fakeMatchStore{waiters: []uint64{3, 1, 2}}
	svc := newRoundService(store)

	summary, err := svc.RunRound(context.Background())

	require.NoError(t, err)
	assert.Equal(t, [][2]uint64{{1, 2}}, summary.Pairs)
	require.NotNil(t, summary.Singleton)
	assert.Equal(t, uint64(3), *summary.Singleton)

	var singletons int
	for _, rec := range store.recorded {
		if rec.partner == nil {
			singletons++
			assert.Equal(t, uint64(3), rec.person)
		}
	}
	assert.Equal(t, 1, singletons)

	// The singleton's waiting flag is cleared like everyone else's.
	assert.ElementsMatch(t, []uint64{1, 2, 3}, store.cleared)
}

func TestRunRoundAvoidsPreviousPairings(t *testing.T) {
	store := &fakeMatchStore{
		waiters: []uint64{1, 2, 3, 4},
		edges:   []ports.WeightedEdge{{A: 1, B: 2, Weight: 1}},
	}
	svc := newRoundService(store)

	summary, err := svc.RunRound(context.Background())

	require.NoError(t, err)
	assert.Equal(t, [][2]uint64{{1, 3}, {2, 4}}, summary.Pairs)
}

func TestRunRoundIsDeterministicAcrossWaiterOrder(t *testing.T) {
	run := func(waiters []uint64) RoundSummary {
		store := &fakeMatchStore{
			waiters: waiters,
			edges: []ports.WeightedEdge{
				{A: 5, B: 7, Weight: 2},
				{A: 6, B: 8, Weight: 1},
			},
		}
		summary, err := newRoundService(store).RunRound(context.Background())
		require.NoError(t, err)
		return summary
	}

	a := run([]uint64{5, 6, 7, 8})
	b := run([]uint64{8, 7, 6, 5})
	assert.Equal(t, a.Pairs, b.Pairs)
}

func TestRunRoundAbortsOnStoreFailure(t *testing.T) {
	for _, stage := range []string{"waiters", "edges", "generation", "record", "clear"} {
		store := &fakeMatchStore{
			waiters: []uint64{1, 2},
			failOn:  stage,
		}
		svc := newRoundService(store)

		_, err := svc.RunRound(context.Background())
		require.Error(t, err, "stage %s", stage)
		assert.ErrorIs(t, err, errInjected, "stage %s", stage)
	}
}

func TestRunRoundGenerationFailureWritesNothing(t *testing.T) {
	store := &fakeMatchStore{
		waiters: []uint64{1, 2},
		failOn:  "generation",
	}
	svc := newRoundService(store)

	_, err := svc.RunRound(context.Background())

	require.Error(t, err)
	assert.Empty(t, store.recorded)
	assert.Empty(t, store.cleared)
}
