package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/notewise/notewise-be/internal/apperrors"
	"github.com/notewise/notewise-be/internal/auth"
	"github.com/notewise/notewise-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for registration, login and profiles.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenManager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePayload defines the structure for profile updates. Empty fields
// are left unchanged.
type ProfilePayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration and returns a session token
// alongside the created account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	user, err := h.service.CreateUser(payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		respondError(w, apperrors.Internal(err))
		return
	}

	respondData(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication and token generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		respondError(w, err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		respondError(w, apperrors.Internal(err))
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMe returns the currently authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthenticated("no token provided"))
		return
	}
	respondData(w, http.StatusOK, user)
}

// UpdateProfile applies a partial update to the authenticated user's
// profile. The password is only rehashed when one is supplied.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthenticated("no token provided"))
		return
	}

	var payload ProfilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	updated, err := h.service.UpdateProfile(user.ID, services.ProfileUpdate{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update profile")
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "profile updated successfully", updated)
}
