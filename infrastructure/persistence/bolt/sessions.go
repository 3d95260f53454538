package bolt

import (
	"context"
	"errors"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"

	"github.com/jeffa5/matcher/application/ports"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// SessionRepository implements session persistence.
type SessionRepository struct {
	store *Store
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a session repository over the shared
// database.
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Create persists a new session.
func (r *SessionRepository) Create(ctx context.Context, session ports.Session) error {
	rec := sessionRecord{
		ID:          session.ID,
		Participant: session.Participant,
		LastSeen:    session.LastSeen.Unix(),
	}
	if err := r.store.db.Insert(rec.ID, &rec); err != nil {
		return pkgerrors.NewDatabaseError("creating session", err)
	}
	return nil
}

// Get retrieves a session by identifier.
func (r *SessionRepository) Get(ctx context.Context, id string) (ports.Session, error) {
	var rec sessionRecord
	if err := r.store.db.Get(id, &rec); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return ports.Session{}, pkgerrors.NewNotFoundError("session")
		}
		return ports.Session{}, pkgerrors.NewDatabaseError("loading session", err)
	}
	return ports.Session{
		ID:          rec.ID,
		Participant: rec.Participant,
		LastSeen:    time.Unix(rec.LastSeen, 0),
	}, nil
}

// Touch updates a session's last-seen time.
func (r *SessionRepository) Touch(ctx context.Context, id string, seen time.Time) error {
	err := r.store.db.Bolt().Update(func(tx *bbolt.Tx) error {
		var rec sessionRecord
		if err := r.store.db.TxGet(tx, id, &rec); err != nil {
			return err
		}
		rec.LastSeen = seen.Unix()
		return r.store.db.TxUpdate(tx, id, &rec)
	})
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return pkgerrors.NewNotFoundError("session")
		}
		return pkgerrors.NewDatabaseError("touching session", err)
	}
	return nil
}

// Delete removes a session. Deleting a session that is already gone is
// not an error.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.db.Delete(id, &sessionRecord{}); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil
		}
		return pkgerrors.NewDatabaseError("deleting session", err)
	}
	return nil
}
