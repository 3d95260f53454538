// Package bolt implements every repository port on a single-file
// bolthold/bbolt database.
package bolt

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"

	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// participantRecord is the stored form of a participant.
type participantRecord struct {
	ID      uint64 `boltholdKey:"ID"`
	Email   string `boltholdIndex:"Email"`
	Name    string
	Waiting bool `boltholdIndex:"Waiting"`
}

// credentialRecord stores a participant's password hash.
type credentialRecord struct {
	Participant  uint64 `boltholdKey:"Participant"`
	PasswordHash string
}

// sessionRecord is a server-side login session.
type sessionRecord struct {
	ID          string `boltholdKey:"ID"`
	Participant uint64 `boltholdIndex:"Participant"`
	LastSeen    int64
}

// generationRecord marks one committed matching round.
type generationRecord struct {
	ID   uint64 `boltholdKey:"ID"`
	Time int64
}

// matchRecord is one outcome row; Partner is nil for a singleton.
type matchRecord struct {
	ID         uint64 `boltholdKey:"ID"`
	Generation uint64 `boltholdIndex:"Generation"`
	Person     uint64 `boltholdIndex:"Person"`
	Partner    *uint64
}

// edgeRecord is the historical pairing count between two participants.
// The key is canonical (smaller identifier first), which keeps the weight
// symmetric with a single row per pair.
type edgeRecord struct {
	Key    string `boltholdKey:"Key"`
	A      uint64
	B      uint64
	Weight int
}

// edgeKey builds the canonical key for a pair of participants. Zero
// padding keeps key order aligned with numeric order.
func edgeKey(a, b uint64) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%020d:%020d", a, b)
}

// Store is the embedded database shared by every repository. bbolt
// serializes writers internally, so one Store serves them all.
type Store struct {
	db *bolthold.Store
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	db, err := bolthold.Open(path, 0o644, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout:      5 * time.Second,
			NoGrowSync:   bbolt.DefaultOptions.NoGrowSync,
			FreelistType: bbolt.DefaultOptions.FreelistType,
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError(fmt.Sprintf("opening database %s", path), err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// setWaiting updates a participant's waiting flag in one transaction.
func (s *Store) setWaiting(id uint64, waiting bool) error {
	err := s.db.Bolt().Update(func(tx *bbolt.Tx) error {
		var rec participantRecord
		if err := s.db.TxGet(tx, id, &rec); err != nil {
			return err
		}
		rec.Waiting = waiting
		return s.db.TxUpdate(tx, id, &rec)
	})
	if err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return pkgerrors.NewNotFoundError("participant")
		}
		return pkgerrors.NewDatabaseError("updating waiting flag", err)
	}
	return nil
}
