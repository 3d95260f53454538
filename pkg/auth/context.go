package auth

import "context"

// contextKey is a private type so packages cannot collide on context keys.
type contextKey string

const (
	contextKeyParticipantID contextKey = "participant_id"
	contextKeySessionID     contextKey = "session_id"
)

// WithParticipant stores the authenticated participant and session on the
// request context.
func WithParticipant(ctx context.Context, participantID uint64, sessionID string) context.Context {
	ctx = context.WithValue(ctx, contextKeyParticipantID, participantID)
	return context.WithValue(ctx, contextKeySessionID, sessionID)
}

// ParticipantIDFromContext extracts the authenticated participant's ID.
func ParticipantIDFromContext(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(contextKeyParticipantID).(uint64)
	return id, ok
}

// SessionIDFromContext extracts the authenticated session's ID.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKeySessionID).(string)
	return id, ok
}
