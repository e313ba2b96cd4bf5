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

// UserHandler handles HTTP requests for accounts and profiles.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// SignupPayload defines the structure for registration requests.
type SignupPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdatePayload defines the structure for profile update requests.
// Image is a base64-encoded JPEG or PNG.
type ProfileUpdatePayload struct {
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Image  *string  `json:"image,omitempty"`
	Skills []string `json:"skills,omitempty"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	_, err := h.service.CreateUser(payload.Email, payload.Password, payload.Name, models.Role(payload.Role))
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		writeError(w, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthenticated)
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User from token not found in DB")
		writeError(w, apperrors.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, user.View())
}

// UpdateProfile handles profile edits for the authenticated user. A
// rejected image fails the whole update; no field is written.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apperrors.ErrUnauthenticated)
		return
	}

	var payload ProfileUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperrors.Validation("invalid request body"))
		return
	}

	user, err := h.service.UpdateProfile(claims.UserID, payload.Name, payload.Bio, payload.Image, payload.Skills)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("Failed to update profile")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.View())
}

// ListMentors returns all mentors, filtered and ordered per query params.
// Routing restricts this endpoint to mentees.
func (h *UserHandler) ListMentors(w http.ResponseWriter, r *http.Request) {
	skill := r.URL.Query().Get("skill")
	orderBy := r.URL.Query().Get("order_by")

	mentors, err := h.service.ListMentors(skill, orderBy)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list mentors")
		writeError(w, err)
		return
	}

	views := make([]models.UserView, 0, len(mentors))
	for _, mentor := range mentors {
		views = append(views, mentor.View())
	}
	writeJSON(w, http.StatusOK, views)
}

// GetImage serves a user's stored profile image, or redirects to the
// per-role placeholder when none is stored.
func (h *UserHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	id := chi.URLParam(r, "id")

	user, err := h.service.GetUserByID(id)
	if err != nil {
		writeError(w, err)
		return
	}

	if !user.HasImage {
		http.Redirect(w, r, models.DefaultImageURL(models.Role(role)), http.StatusTemporaryRedirect)
		return
	}

	data, mime, err := h.service.GetProfileImage(id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Write(data)
}
