package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/ports"
	"github.com/jeffa5/matcher/domain/core/entities"
	"github.com/jeffa5/matcher/pkg/auth"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// SessionTTL is the sliding window after which an untouched session is
// rejected and removed.
const SessionTTL = 7 * 24 * time.Hour

// AuthService handles sign-up, sign-in, and session validation. Sessions
// live server-side; the token a client holds is a signed reference to one.
type AuthService struct {
	participants ports.ParticipantRepository
	credentials  ports.CredentialRepository
	sessions     ports.SessionRepository
	tokens       *auth.TokenManager
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	participants ports.ParticipantRepository,
	credentials ports.CredentialRepository,
	sessions ports.SessionRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		participants: participants,
		credentials:  credentials,
		sessions:     sessions,
		tokens:       tokens,
		logger:       logger,
	}
}

// SignUp registers a new participant and signs them in, returning the
// participant and a session token.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*entities.Participant, string, error) {
	participant, err := entities.NewParticipant(email, name)
	if err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", pkgerrors.NewInternalError("hashing password").WithCause(err)
	}

	if err := s.participants.Create(ctx, participant); err != nil {
		return nil, "", err
	}
	if err := s.credentials.Save(ctx, participant.ID(), hash); err != nil {
		return nil, "", err
	}

	token, err := s.startSession(ctx, participant.ID())
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Participant signed up",
		zap.Uint64("participantID", participant.ID()),
	)
	return participant, token, nil
}

// SignIn verifies a participant's password and mints a fresh session,
// returning its token. Unknown emails and wrong passwords are reported
// identically.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	participant, err := s.participants.GetByEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return "", pkgerrors.NewUnauthorizedError("invalid email or password")
		}
		return "", err
	}

	hash, err := s.credentials.GetHash(ctx, participant.ID())
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return "", pkgerrors.NewUnauthorizedError("invalid email or password")
		}
		return "", err
	}

	ok, err := auth.VerifyPassword(password, hash)
	if err != nil {
		return "", pkgerrors.NewInternalError("verifying password").WithCause(err)
	}
	if !ok {
		return "", pkgerrors.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.startSession(ctx, participant.ID())
	if err != nil {
		return "", err
	}

	s.logger.Info("Participant signed in",
		zap.Uint64("participantID", participant.ID()),
	)
	return token, nil
}

// Authenticate validates a session token: signature and expiry on the
// token itself, then the server-side session record with its sliding
// one-week window. A valid call refreshes the session's last-seen time.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uint64, string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return 0, "", pkgerrors.NewUnauthorizedError("invalid session token").WithCause(err)
	}

	participantID, err := claims.ParticipantID()
	if err != nil {
		return 0, "", pkgerrors.NewUnauthorizedError("invalid session token").WithCause(err)
	}

	session, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return 0, "", pkgerrors.NewUnauthorizedError("session revoked")
		}
		return 0, "", err
	}
	if session.Participant != participantID {
		return 0, "", pkgerrors.NewUnauthorizedError("invalid session token")
	}

	if time.Since(session.LastSeen) > SessionTTL {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("Failed to remove expired session",
				zap.String("sessionID", session.ID),
				zap.Error(err),
			)
		}
		return 0, "", pkgerrors.NewUnauthorizedError("session expired")
	}

	if err := s.sessions.Touch(ctx, session.ID, time.Now()); err != nil {
		return 0, "", err
	}
	return participantID, session.ID, nil
}

// SignOut revokes a session so its token stops validating.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// startSession creates a session record and signs a token for it.
func (s *AuthService) startSession(ctx context.Context, participantID uint64) (string, error) {
	session := ports.Session{
		ID:          uuid.New().String(),
		Participant: participantID,
		LastSeen:    time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	token, err := s.tokens.Sign(session.ID, participantID)
	if err != nil {
		return "", pkgerrors.NewInternalError("signing session token").WithCause(err)
	}
	return token, nil
}
