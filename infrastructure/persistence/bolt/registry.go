package bolt

import (
	"context"
	"errors"
	"slices"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/domain/core/entities"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// ParticipantRepository implements registry persistence.
type ParticipantRepository struct {
	store *Store
}

var _ ports.ParticipantRepository = (*ParticipantRepository)(nil)

// NewParticipantRepository creates a participant repository over the
// shared database.
func NewParticipantRepository(store *Store) *ParticipantRepository {
	return &ParticipantRepository{store: store}
}

// Create persists a new participant, assigning its identifier. The email
// uniqueness check and the insert share one transaction.
func (r *ParticipantRepository) Create(ctx context.Context, participant *entities.Participant) error {
	rec := participantRecord{
		Email:   participant.Email(),
		Name:    participant.Name(),
		Waiting: participant.IsWaiting(),
	}

	err := r.store.db.Bolt().Update(func(tx *bbolt.Tx) error {
		var existing participantRecord
		err := r.store.db.TxFindOne(tx, &existing, bolthold.Where("Email").Eq(rec.Email).Index("Email"))
		if err == nil {
			return pkgerrors.NewConflictError("email already registered")
		}
		if !errors.Is(err, bolthold.ErrNotFound) {
			return err
		}
		return r.store.db.TxInsert(tx, bolthold.NextSequence(), &rec)
	})
	if err != nil {
		if pkgerrors.IsConflict(err) {
			return err
		}
		return pkgerrors.NewDatabaseError("creating participant", err)
	}

	participant.SetID(rec.ID)
	return nil
}

// GetByID retrieves a participant by identifier.
func (r *ParticipantRepository) GetByID(ctx context.Context, id uint64) (*entities.Participant, error) {
	var rec participantRecord
	if err := r.store.db.Get(id, &rec); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("participant")
		}
		return nil, pkgerrors.NewDatabaseError("loading participant", err)
	}
	return toParticipant(rec), nil
}

// GetByEmail retrieves a participant by email address.
func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (*entities.Participant, error) {
	var rec participantRecord
	if err := r.store.db.FindOne(&rec, bolthold.Where("Email").Eq(email).Index("Email")); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("participant")
		}
		return nil, pkgerrors.NewDatabaseError("loading participant", err)
	}
	return toParticipant(rec), nil
}

// List retrieves all participants ordered by identifier.
func (r *ParticipantRepository) List(ctx context.Context) ([]*entities.Participant, error) {
	var records []participantRecord
	if err := r.store.db.Find(&records, nil); err != nil {
		return nil, pkgerrors.NewDatabaseError("listing participants", err)
	}

	slices.SortFunc(records, func(a, b participantRecord) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	participants := make([]*entities.Participant, 0, len(records))
	for _, rec := range records {
		participants = append(participants, toParticipant(rec))
	}
	return participants, nil
}

// SetWaiting updates a participant's waiting flag.
func (r *ParticipantRepository) SetWaiting(ctx context.Context, id uint64, waiting bool) error {
	return r.store.setWaiting(id, waiting)
}

// toParticipant converts a stored record to the domain entity.
func toParticipant(rec participantRecord) *entities.Participant {
	return entities.ReconstructParticipant(rec.ID, rec.Email, rec.Name, rec.Waiting)
}

// CredentialRepository stores password hashes keyed by participant.
type CredentialRepository struct {
	store *Store
}

var _ ports.CredentialRepository = (*CredentialRepository)(nil)

// NewCredentialRepository creates a credential repository over the shared
// database.
func NewCredentialRepository(store *Store) *CredentialRepository {
	return &CredentialRepository{store: store}
}

// Save persists the password hash for a participant.
func (r *CredentialRepository) Save(ctx context.Context, participantID uint64, passwordHash string) error {
	rec := credentialRecord{Participant: participantID, PasswordHash: passwordHash}
	if err := r.store.db.Upsert(participantID, &rec); err != nil {
		return pkgerrors.NewDatabaseError("saving credential", err)
	}
	return nil
}

// GetHash retrieves the stored password hash for a participant.
func (r *CredentialRepository) GetHash(ctx context.Context, participantID uint64) (string, error) {
	var rec credentialRecord
	if err := r.store.db.Get(participantID, &rec); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return "", pkgerrors.NewNotFoundError("credential")
		}
		return "", pkgerrors.NewDatabaseError("loading credential", err)
	}
	return rec.PasswordHash, nil
}
