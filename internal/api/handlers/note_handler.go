package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/notewise/notewise-be/internal/apperrors"
	"github.com/notewise/notewise-be/internal/auth"
	"github.com/notewise/notewise-be/internal/models"
	"github.com/notewise/notewise-be/internal/services"
	"github.com/rs/zerolog/log"
)

// NoteHandler handles HTTP requests for notes. All its routes sit behind
// the auth middleware, so a resolved caller identity is always present.
type NoteHandler struct {
	service services.NoteServiceProvider
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service services.NoteServiceProvider) *NoteHandler {
	return &NoteHandler{service: service}
}

// Create handles the request to create a new note owned by the caller.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var note models.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	created, err := h.service.CreateNote(user.ID, note)
	if err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "note created successfully", created)
}

// GetAll lists the caller's notes, applying the search and tags filters
// from the query string.
func (h *NoteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	filter := services.NoteFilter{
		Search: r.URL.Query().Get("search"),
	}
	if rawTags := r.URL.Query().Get("tags"); rawTags != "" {
		for _, tag := range strings.Split(rawTags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	notes, err := h.service.ListNotes(user.ID, filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list notes")
		respondError(w, err)
		return
	}

	respondList(w, len(notes), notes)
}

// Get handles the request to get a single note owned by the caller.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	note, err := h.service.GetNoteForUser(id, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, note)
}

// Update handles the request to update a note owned by the caller.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var update services.NoteUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, apperrors.Validation("invalid request body"))
		return
	}

	note, err := h.service.UpdateNoteForUser(id, user.ID, update)
	if err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "note updated successfully", note)
}

// Delete handles the request to delete a note owned by the caller.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteNoteForUser(id, user.ID); err != nil {
		respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "note deleted successfully", map[string]interface{}{})
}
