package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/services"
	"github.com/jeffa5/matcher/pkg/common"
	pkgerrors "github.com/jeffa5/matcher/pkg/errors"
)

// MatchHandler handles matching rounds and match history requests
type MatchHandler struct {
	roundService       *services.RoundService
	participantService *services.ParticipantService
	logger             *zap.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(
	roundService *services.RoundService,
	participantService *services.ParticipantService,
	logger *zap.Logger,
) *MatchHandler {
	return &MatchHandler{
		roundService:       roundService,
		participantService: participantService,
		logger:             logger,
	}
}

// GenerationResponse carries one round's metadata and matches
type GenerationResponse struct {
	Generation uint64          `json:"generation"`
	Time       string          `json:"time"`
	Matches    []MatchResponse `json:"matches"`
}

// TriggerRound handles POST /matches/rounds
func (h *MatchHandler) TriggerRound(w http.ResponseWriter, r *http.Request) {
	summary, err := h.roundService.RunRound(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if summary.Empty() {
		common.RespondJSON(w, http.StatusOK, summary)
		return
	}
	common.RespondJSON(w, http.StatusCreated, summary)
}

// Latest handles GET /matches/latest
func (h *MatchHandler) Latest(w http.ResponseWriter, r *http.Request) {
	generation, matches, err := h.participantService.LatestMatches(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, GenerationResponse{
		Generation: generation.ID,
		Time:       generation.Time.UTC().Format(time.RFC3339),
		Matches:    toMatchResponses(matches),
	})
}

// AtGeneration handles GET /matches/{generation}
func (h *MatchHandler) AtGeneration(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "generation")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest,
			string(pkgerrors.ErrorTypeValidation), "invalid generation")
		return
	}

	generation, matches, err := h.participantService.MatchesAt(r.Context(), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, GenerationResponse{
		Generation: generation.ID,
		Time:       generation.Time.UTC().Format(time.RFC3339),
		Matches:    toMatchResponses(matches),
	})
}

