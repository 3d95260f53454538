package bolt

import (
	"context"
	"errors"
	"time"

	"github.com/timshannon/bolthold"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/domain/core/entities"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// MatchHistoryRepository serves read queries over recorded rounds.
type MatchHistoryRepository struct {
	store *Store
}

var _ ports.MatchHistoryRepository = (*MatchHistoryRepository)(nil)

// NewMatchHistoryRepository creates a history repository over the shared
// database.
func NewMatchHistoryRepository(store *Store) *MatchHistoryRepository {
	return &MatchHistoryRepository{store: store}
}

// MatchesFor retrieves every match involving the participant, on either
// side of the pair.
func (r *MatchHistoryRepository) MatchesFor(ctx context.Context, participantID uint64) ([]entities.Match, error) {
	var records []matchRecord
	if err := r.store.db.Find(&records, nil); err != nil {
		return nil, pkgerrors.NewDatabaseError("loading match history", err)
	}

	var matches []entities.Match
	for _, rec := range records {
		if rec.Person == participantID || (rec.Partner != nil && *rec.Partner == participantID) {
			matches = append(matches, toMatch(rec))
		}
	}
	return matches, nil
}

// MatchesAt retrieves the matches recorded at one generation.
func (r *MatchHistoryRepository) MatchesAt(ctx context.Context, generation uint64) ([]entities.Match, error) {
	var records []matchRecord
	err := r.store.db.Find(&records, bolthold.Where("Generation").Eq(generation).Index("Generation"))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("loading matches", err)
	}

	matches := make([]entities.Match, 0, len(records))
	for _, rec := range records {
		matches = append(matches, toMatch(rec))
	}
	return matches, nil
}

// GenerationAt retrieves one generation's metadata.
func (r *MatchHistoryRepository) GenerationAt(ctx context.Context, id uint64) (entities.Generation, error) {
	var rec generationRecord
	if err := r.store.db.Get(id, &rec); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return entities.Generation{}, pkgerrors.NewNotFoundError("generation")
		}
		return entities.Generation{}, pkgerrors.NewDatabaseError("loading generation", err)
	}
	return entities.Generation{ID: rec.ID, Time: time.Unix(rec.Time, 0)}, nil
}

// LatestGeneration retrieves the most recent generation's metadata.
func (r *MatchHistoryRepository) LatestGeneration(ctx context.Context) (entities.Generation, error) {
	var latest []generationRecord
	err := r.store.db.Find(&latest,
		bolthold.Where(bolthold.Key).Ge(uint64(0)).SortBy("ID").Reverse().Limit(1))
	if err != nil {
		return entities.Generation{}, pkgerrors.NewDatabaseError("loading latest generation", err)
	}
	if len(latest) == 0 {
		return entities.Generation{}, pkgerrors.NewNotFoundError("generation")
	}
	return entities.Generation{ID: latest[0].ID, Time: time.Unix(latest[0].Time, 0)}, nil
}

// toMatch converts a stored record to the domain type.
func toMatch(rec matchRecord) entities.Match {
	return entities.Match{
		Generation: rec.Generation,
		Person:     rec.Person,
		Partner:    rec.Partner,
	}
}
