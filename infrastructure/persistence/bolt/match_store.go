package bolt

import (
	"context"
	"errors"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/domain/core/entities"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// MatchStore implements the five-operation round persistence contract.
type MatchStore struct {
	store *Store
}

var _ ports.MatchStore = (*MatchStore)(nil)

// NewMatchStore creates a match store over the shared database.
func NewMatchStore(store *Store) *MatchStore {
	return &MatchStore{store: store}
}

// ListWaiters returns the identifiers of participants flagged as waiting.
func (m *MatchStore) ListWaiters(ctx context.Context) ([]uint64, error) {
	var records []participantRecord
	if err := m.store.db.Find(&records, bolthold.Where("Waiting").Eq(true).Index("Waiting")); err != nil {
		return nil, pkgerrors.NewDatabaseError("listing waiters", err)
	}

	ids := make([]uint64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// EdgesAmong returns the stored pairing counts restricted to pairs with
// both endpoints in ids. Pairs without a row have weight 0 and are not
// reported.
func (m *MatchStore) EdgesAmong(ctx context.Context, ids []uint64) ([]ports.WeightedEdge, error) {
	within := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		within[id] = true
	}

	var records []edgeRecord
	if err := m.store.db.Find(&records, nil); err != nil {
		return nil, pkgerrors.NewDatabaseError("listing edges", err)
	}

	var edges []ports.WeightedEdge
	for _, r := range records {
		if within[r.A] && within[r.B] {
			edges = append(edges, ports.WeightedEdge{A: r.A, B: r.B, Weight: r.Weight})
		}
	}
	return edges, nil
}

// AllocateGeneration mints the next generation identifier. Reading the
// previous maximum and inserting its successor share one write
// transaction, so identifiers are strictly increasing even across
// concurrent callers.
func (m *MatchStore) AllocateGeneration(ctx context.Context) (entities.Generation, error) {
	now := time.Now()
	var allocated generationRecord

	err := m.store.db.Bolt().Update(func(tx *bbolt.Tx) error {
		var latest []generationRecord
		err := m.store.db.TxFind(tx, &latest,
			bolthold.Where(bolthold.Key).Ge(uint64(0)).SortBy("ID").Reverse().Limit(1))
		if err != nil {
			return err
		}

		next := uint64(1)
		if len(latest) > 0 {
			next = latest[0].ID + 1
		}
		allocated = generationRecord{ID: next, Time: now.Unix()}
		return m.store.db.TxInsert(tx, allocated.ID, &allocated)
	})
	if err != nil {
		return entities.Generation{}, pkgerrors.NewDatabaseError("allocating generation", err)
	}

	return entities.Generation{ID: allocated.ID, Time: time.Unix(allocated.Time, 0)}, nil
}

// RecordMatch persists one outcome row and, when a partner is present,
// increments the pair's historical weight. Both writes share one
// transaction so a failure leaves neither behind.
func (m *MatchStore) RecordMatch(ctx context.Context, generation uint64, person uint64, partner *uint64) error {
	err := m.store.db.Bolt().Update(func(tx *bbolt.Tx) error {
		rec := matchRecord{Generation: generation, Person: person, Partner: partner}
		if err := m.store.db.TxInsert(tx, bolthold.NextSequence(), &rec); err != nil {
			return err
		}
		if partner == nil {
			return nil
		}

		key := edgeKey(person, *partner)
		var edge edgeRecord
		err := m.store.db.TxGet(tx, key, &edge)
		switch {
		case errors.Is(err, bolthold.ErrNotFound):
			a, b := person, *partner
			if b < a {
				a, b = b, a
			}
			edge = edgeRecord{Key: key, A: a, B: b, Weight: 1}
			return m.store.db.TxInsert(tx, key, &edge)
		case err != nil:
			return err
		default:
			edge.Weight++
			return m.store.db.TxUpdate(tx, key, &edge)
		}
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("recording match", err)
	}
	return nil
}

// ClearWaiting resets a participant's waiting flag to false.
func (m *MatchStore) ClearWaiting(ctx context.Context, id uint64) error {
	return m.store.setWaiting(id, false)
}
