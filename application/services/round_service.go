package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/domain/matching"
	"github.com/jeffa5/matcher/pkg/observability"
)

// RoundSummary reports what one matching round produced.
type RoundSummary struct {
	Generation uint64      `json:"generation"`
	Pairs      [][2]uint64 `json:"pairs"`
	Singleton  *uint64     `json:"singleton,omitempty"`
}

// Empty reports whether the round was a no-op because nobody was waiting.
// No generation is allocated for an empty round, so 0 doubles as the
// sentinel.
func (s RoundSummary) Empty() bool {
	return s.Generation == 0
}

// RoundService drives matching rounds end to end: snapshot the waiting
// pool, build the round graph from historical weights, run the matching,
// and persist the outcome under a freshly allocated generation.
type RoundService struct {
	store  ports.MatchStore
	logger *zap.Logger

	// mu serializes whole rounds. Two interleaved rounds could
	// double-allocate a generation or double-match a participant.
	mu sync.Mutex
}

// NewRoundService creates a new round service
func NewRoundService(store ports.MatchStore, logger *zap.Logger) *RoundService {
	return &RoundService{
		store:  store,
		logger: logger,
	}
}

// RunRound executes one matching round. An empty waiting pool is a
// successful no-op with no side effects. Any store failure aborts the
// round immediately; nothing is retried. Every participant who was
// waiting at the snapshot has their flag cleared on success, whether they
// were paired or left as the singleton.
func (s *RoundService) RunRound(ctx context.Context) (RoundSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	waiters, err := s.store.ListWaiters(ctx)
	if err != nil {
		return s.abort("listing waiters", err)
	}
	observability.WaitingParticipants.Set(float64(len(waiters)))

	if len(waiters) == 0 {
		s.logger.Info("No participants waiting, skipping round")
		observability.RoundsTotal.WithLabelValues("empty").Inc()
		return RoundSummary{}, nil
	}

	// Sort before assigning indices so identical inputs always produce
	// the same round, regardless of store iteration order.
	slices.Sort(waiters)

	graph := matching.NewGraph()
	indexByID := make(map[uint64]int, len(waiters))
	for _, id := range waiters {
		indexByID[id] = graph.AddNode(id)
	}

	edges, err := s.store.EdgesAmong(ctx, waiters)
	if err != nil {
		return s.abort("loading historical weights", err)
	}
	for _, e := range edges {
		i, ok := indexByID[e.A]
		if !ok {
			return s.abort("loading historical weights", fmt.Errorf("edge endpoint %d not in waiting set", e.A))
		}
		j, ok := indexByID[e.B]
		if !ok {
			return s.abort("loading historical weights", fmt.Errorf("edge endpoint %d not in waiting set", e.B))
		}
		graph.AddEdge(i, j, e.Weight)
	}

	result := graph.Matching()

	generation, err := s.store.AllocateGeneration(ctx)
	if err != nil {
		return s.abort("allocating generation", err)
	}

	summary := RoundSummary{
		Generation: generation.ID,
		Pairs:      make([][2]uint64, 0, len(result.Pairs)),
	}
	for _, pair := range result.Pairs {
		a, b := graph.Node(pair.A), graph.Node(pair.B)
		partner := b
		if err := s.store.RecordMatch(ctx, generation.ID, a, &partner); err != nil {
			return s.abort("recording match", err)
		}
		summary.Pairs = append(summary.Pairs, [2]uint64{a, b})
	}
	if result.HasSingleton() {
		id := graph.Node(result.Singleton)
		if err := s.store.RecordMatch(ctx, generation.ID, id, nil); err != nil {
			return s.abort("recording singleton", err)
		}
		summary.Singleton = &id
	}

	// A round consumes the entire waiting pool, matched or not.
	for _, id := range waiters {
		if err := s.store.ClearWaiting(ctx, id); err != nil {
			return s.abort("clearing waiting flag", err)
		}
	}

	observability.RoundsTotal.WithLabelValues("committed").Inc()
	observability.PairsTotal.Add(float64(len(summary.Pairs)))
	if summary.Singleton != nil {
		observability.SingletonsTotal.Inc()
	}

	s.logger.Info("Matching round committed",
		zap.Uint64("generation", generation.ID),
		zap.Int("waiters", len(waiters)),
		zap.Int("pairs", len(summary.Pairs)),
		zap.Bool("singleton", summary.Singleton != nil),
	)
	return summary, nil
}

// abort records a failed round and wraps the cause with its stage.
func (s *RoundService) abort(stage string, err error) (RoundSummary, error) {
	observability.RoundsTotal.WithLabelValues("failed").Inc()
	s.logger.Error("Matching round aborted",
		zap.String("stage", stage),
		zap.Error(err),
	)
	return RoundSummary{}, fmt.Errorf("%s: %w", stage, err)
}
