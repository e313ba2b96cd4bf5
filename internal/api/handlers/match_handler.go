package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mentormatch/mentor-match-be/internal/apperrors"
	"github.com/mentormatch/mentor-match-be/internal/auth"
	"github.com/mentormatch/mentor-match-be/internal/models"
	"github.com/mentormatch/mentor-match-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MatchRequestHandler handles HTTP requests for the match request lifecycle.
type MatchRequestHandler struct {
	service services.MatchRequestServiceProvider
}

// NewMatchRequestHandler creates a new MatchRequestHandler.
func NewMatchRequestHandler(service services.MatchRequestServiceProvider) *MatchRequestHandler {
	return &MatchRequestHandler{service: service}
}

// CreatePayload defines the structure for match request creation.
type CreatePayload struct {
	MentorID string `json:"mentorId"`
	Message  string `json:"message"`
}

// Create handles a mentee sending a new match request.
func (h *MatchRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthenticated)
		return
	}

	var payload CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}
	if payload.MentorID == "" {
		writeError(w, apperrors.Validation("mentorId is required"))
		return
	}

	req, err := h.service.Create(claims.UserID, payload.MentorID, payload.Message)
	if err != nil {
		log.Warn().Err(err).Str("mentee_id", claims.UserID).Str("mentor_id", payload.MentorID).Msg("Failed to create match request")
		// A bad mentor id is a 400 on this endpoint, not a 404; clients
		// depend on that status.
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// Incoming lists all requests targeting the authenticated mentor.
func (h *MatchRequestHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthenticated)
		return
	}

	requests, err := h.service.ListIncoming(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("mentor_id", claims.UserID).Msg("Failed to list incoming requests")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// Outgoing lists all requests originated by the authenticated mentee.
func (h *MatchRequestHandler) Outgoing(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthenticated)
		return
	}

	requests, err := h.service.ListOutgoing(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("mentee_id", claims.UserID).Msg("Failed to list outgoing requests")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// Accept handles a mentor accepting a pending request.
func (h *MatchRequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Accept)
}

// Reject handles a mentor rejecting a pending request.
func (h *MatchRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

// Cancel handles a mentee cancelling their own pending request.
func (h *MatchRequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

func (h *MatchRequestHandler) transition(w http.ResponseWriter, r *http.Request, op func(requestID, callerID string) (models.MatchRequest, error)) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthenticated)
		return
	}

	requestID := chi.URLParam(r, "id")
	req, err := op(requestID, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Str("user_id", claims.UserID).Msg("Match request transition failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
