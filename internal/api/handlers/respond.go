package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mentormatch/mentor-match-be/internal/apperrors"
	"github.com/rs/zerolog/log"
)

// errorBody is the uniform error response shape.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain failure onto its HTTP status code and emits the
// uniform {"detail": ...} body. Unclassified errors become opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindConflict:
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
	case apperrors.KindAuth:
		writeJSON(w, http.StatusUnauthorized, errorBody{Detail: err.Error()})
	case apperrors.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Detail: err.Error()})
	default:
		log.Error().Err(err).Msg("Unhandled internal error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
	}
}
