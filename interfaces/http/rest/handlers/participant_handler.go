package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/services"
	"github.com/jeffa5/matcher/domain/core/entities"
	"github.com/jeffa5/matcher/pkg/common"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// ParticipantHandler handles registry-related HTTP requests
type ParticipantHandler struct {
	participantService *services.ParticipantService
	logger             *zap.Logger
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(participantService *services.ParticipantService, logger *zap.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
		logger:             logger,
	}
}

// ParticipantResponse is the JSON form of a participant
type ParticipantResponse struct {
	ID      uint64 `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Waiting bool   `json:"waiting"`
}

// MatchResponse is the JSON form of one recorded match
type MatchResponse struct {
	Generation uint64  `json:"generation"`
	Person     uint64  `json:"person"`
	Partner    *uint64 `json:"partner,omitempty"`
}

// List handles GET /participants
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.participantService.List(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	responses := make([]*ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		responses = append(responses, toParticipantResponse(p))
	}
	common.RespondJSON(w, http.StatusOK, responses)
}

// Get handles GET /participants/{participantID}
func (h *ParticipantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := participantIDParam(w, r)
	if !ok {
		return
	}

	participant, err := h.participantService.Get(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toParticipantResponse(participant))
}

// ToggleWaiting handles POST /participants/{participantID}/waiting
func (h *ParticipantHandler) ToggleWaiting(w http.ResponseWriter, r *http.Request) {
	id, ok := participantIDParam(w, r)
	if !ok {
		return
	}

	waiting, err := h.participantService.ToggleWaiting(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"waiting": waiting,
	})
}

// Matches handles GET /participants/{participantID}/matches
func (h *ParticipantHandler) Matches(w http.ResponseWriter, r *http.Request) {
	id, ok := participantIDParam(w, r)
	if !ok {
		return
	}

	matches, err := h.participantService.MatchesFor(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, toMatchResponses(matches))
}

// participantIDParam parses the participant ID path parameter, responding
// with a validation error on failure.
func participantIDParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "participantID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(pkgerrors.ErrorTypeValidation), "invalid participant ID")
		return 0, false
	}
	return id, true
}

// toParticipantResponse converts a participant entity to its JSON form.
func toParticipantResponse(p *entities.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:      p.ID(),
		Email:   p.Email(),
		Name:    p.Name(),
		Waiting: p.IsWaiting(),
	}
}

// toMatchResponses converts match entities to their JSON form.
func toMatchResponses(matches []entities.Match) []MatchResponse {
	responses := make([]MatchResponse, 0, len(matches))
	for _, m := range matches {
		responses = append(responses, MatchResponse{
			Generation: m.Generation,
			Person:     m.Person,
			Partner:    m.Partner,
		})
	}
	return responses
}
