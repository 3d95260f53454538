package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/services"
	"github.com/jeffa5/matcher/pkg/auth"
	"github.com/jeffa5/matcher/pkg/common"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
	"github.com/jeffa5/matcher/pkg/utils"
)

// sessionCookie mirrors middleware.SessionCookie; redeclared here to keep
// handlers free of a middleware import.
const sessionCookie = "matcher_session"

// AuthHandler handles sign-up, sign-in, and sign-out requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignUpRequest represents the request body for registering
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// SignInRequest represents the request body for signing in
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse carries a fresh session token
type SessionResponse struct {
	Token       string               `json:"token"`
	Participant *ParticipantResponse `json:"participant,omitempty"`
}

// SignUp handles POST /auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(pkgerrors.ErrorTypeValidation), "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(pkgerrors.ErrorTypeValidation), err.Error())
		return
	}

	participant, token, err := h.authService.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	setSessionCookie(w, token)
	common.RespondJSON(w, http.StatusCreated, SessionResponse{
		Token:       token,
		Participant: toParticipantResponse(participant),
	})
}

// SignIn handles POST /auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(pkgerrors.ErrorTypeValidation), "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(pkgerrors.ErrorTypeValidation), err.Error())
		return
	}

	token, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	setSessionCookie(w, token)
	common.RespondJSON(w, http.StatusOK, SessionResponse{Token: token})
}

// SignOut handles POST /auth/signout. It runs behind the auth middleware,
// so a session is guaranteed on the context.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := auth.SessionIDFromContext(r.Context())
	if !ok {
		common.RespondError(w, http.StatusUnauthorized,
			string(pkgerrors.ErrorTypeUnauthorized), "not signed in")
		return
	}

	if err := h.authService.SignOut(r.Context(), sessionID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	clearSessionCookie(w)
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// setSessionCookie attaches the session token for browser clients.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(services.SessionTTL.Seconds()),
	})
}

// clearSessionCookie expires the session cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
