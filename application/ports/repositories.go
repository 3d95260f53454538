package ports

import (
	"context"
	"time"

	"github.com/jeffa5/matcher/domain/core/entities"
)

// WeightedEdge is one historical pairing count between two participants.
type WeightedEdge struct {
	A      uint64
	B      uint64
	Weight int
}

// MatchStore is the matching round's only view of persistence. This is a
// port in hexagonal architecture - the round orchestrator doesn't know
// about the implementation.
type MatchStore interface {
	// ListWaiters returns the identifiers of participants currently
	// flagged as waiting. Order is unspecified; callers must sort.
	ListWaiters(ctx context.Context) ([]uint64, error)

	// EdgesAmong returns historical pairing counts restricted to pairs
	// with both endpoints in ids. Absent pairs mean weight 0.
	EdgesAmong(ctx context.Context, ids []uint64) ([]WeightedEdge, error)

	// AllocateGeneration mints the next generation identifier (previous
	// maximum plus one) with a creation timestamp.
	AllocateGeneration(ctx context.Context) (entities.Generation, error)

	// RecordMatch persists one outcome row at the given generation. When
	// a partner is present the same call increments the pair's historical
	// weight by one.
	RecordMatch(ctx context.Context, generation uint64, person uint64, partner *uint64) error

	// ClearWaiting resets a participant's waiting flag to false.
	ClearWaiting(ctx context.Context, id uint64) error
}

// ParticipantRepository defines the interface for registry persistence.
type ParticipantRepository interface {
	// Create persists a new participant and assigns its identifier.
	// A duplicate email is a conflict.
	Create(ctx context.Context, participant *entities.Participant) error

	// GetByID retrieves a participant by identifier.
	GetByID(ctx context.Context, id uint64) (*entities.Participant, error)

	// GetByEmail retrieves a participant by email address.
	GetByEmail(ctx context.Context, email string) (*entities.Participant, error)

	// List retrieves all participants ordered by identifier.
	List(ctx context.Context) ([]*entities.Participant, error)

	// SetWaiting updates a participant's waiting flag.
	SetWaiting(ctx context.Context, id uint64, waiting bool) error
}

// CredentialRepository stores password hashes keyed by participant.
type CredentialRepository interface {
	// Save persists the password hash for a participant.
	Save(ctx context.Context, participantID uint64, passwordHash string) error

	// GetHash retrieves the stored password hash for a participant.
	GetHash(ctx context.Context, participantID uint64) (string, error)
}

// Session is a server-side login session. Tokens reference sessions by
// ID, so deleting the record revokes the token.
type Session struct {
	ID          string
	Participant uint64
	LastSeen    time.Time
}

// SessionRepository defines the interface for session persistence.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session Session) error

	// Get retrieves a session by identifier.
	Get(ctx context.Context, id string) (Session, error)

	// Touch updates a session's last-seen time.
	Touch(ctx context.Context, id string, seen time.Time) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error
}

// MatchHistoryRepository serves read queries over recorded rounds.
type MatchHistoryRepository interface {
	// MatchesFor retrieves every match involving the participant, on
	// either side of the pair.
	MatchesFor(ctx context.Context, participantID uint64) ([]entities.Match, error)

	// MatchesAt retrieves the matches recorded at one generation.
	MatchesAt(ctx context.Context, generation uint64) ([]entities.Match, error)

	// GenerationAt retrieves one generation's metadata.
	GenerationAt(ctx context.Context, id uint64) (entities.Generation, error)

	// LatestGeneration retrieves the most recent generation's metadata.
	// Returns a not-found error when no round has ever run.
	LatestGeneration(ctx context.Context) (entities.Generation, error)
}
