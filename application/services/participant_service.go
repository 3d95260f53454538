package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/domain/core/entities"
)

// ParticipantService serves registry queries and the waiting-flag toggle.
type ParticipantService struct {
	participants ports.ParticipantRepository
	history      ports.MatchHistoryRepository
	logger       *zap.Logger
}

// NewParticipantService creates a new participant service
func NewParticipantService(
	participants ports.ParticipantRepository,
	history ports.MatchHistoryRepository,
	logger *zap.Logger,
) *ParticipantService {
	return &ParticipantService{
		participants: participants,
		history:      history,
		logger:       logger,
	}
}

// Get retrieves a participant by identifier.
func (s *ParticipantService) Get(ctx context.Context, id uint64) (*entities.Participant, error) {
	return s.participants.GetByID(ctx, id)
}

// List retrieves all registered participants.
func (s *ParticipantService) List(ctx context.Context) ([]*entities.Participant, error) {
	return s.participants.List(ctx)
}

// ToggleWaiting flips a participant's waiting flag and returns the new
// state.
func (s *ParticipantService) ToggleWaiting(ctx context.Context, id uint64) (bool, error) {
	participant, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	waiting := !participant.IsWaiting()
	if err := s.participants.SetWaiting(ctx, id, waiting); err != nil {
		return false, err
	}

	s.logger.Info("Waiting flag toggled",
		zap.Uint64("participantID", id),
		zap.Bool("waiting", waiting),
	)
	return waiting, nil
}

// MatchesFor retrieves a participant's full match history.
func (s *ParticipantService) MatchesFor(ctx context.Context, id uint64) ([]entities.Match, error) {
	if _, err := s.participants.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.history.MatchesFor(ctx, id)
}

// MatchesAt retrieves the matches recorded at one generation, along with
// the generation's metadata.
func (s *ParticipantService) MatchesAt(ctx context.Context, generation uint64) (entities.Generation, []entities.Match, error) {
	meta, err := s.history.GenerationAt(ctx, generation)
	if err != nil {
		return entities.Generation{}, nil, err
	}
	matches, err := s.history.MatchesAt(ctx, generation)
	if err != nil {
		return entities.Generation{}, nil, err
	}
	return meta, matches, nil
}

// LatestMatches retrieves the matches of the most recent round.
func (s *ParticipantService) LatestMatches(ctx context.Context) (entities.Generation, []entities.Match, error) {
	meta, err := s.history.LatestGeneration(ctx)
	if err != nil {
		return entities.Generation{}, nil, err
	}
	matches, err := s.history.MatchesAt(ctx, meta.ID)
	if err != nil {
		return entities.Generation{}, nil, err
	}
	return meta, matches, nil
}
