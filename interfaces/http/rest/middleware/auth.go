package middleware

import (
	"net/http"
	"strings"

	"github.com/jeffa5/matcher/application/services"
	"github.com/jeffa5/matcher/pkg/auth"
	"github.com/jeffa5/matcher/pkg/common"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// SessionCookie is the cookie carrying the session token for browser
// clients. API clients may send the same token as a bearer header.
const SessionCookie = "matcher_session"

// Authenticate validates the session token on every request and stores
// the authenticated participant on the context.
func Authenticate(authService *services.AuthService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized,
					string(pkgerrors.ErrorTypeUnauthorized), "missing session token")
				return
			}

			participantID, sessionID, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				common.RespondAppError(w, err)
				return
			}

			ctx := auth.WithParticipant(r.Context(), participantID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token from the Authorization header or
// the session cookie.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}
