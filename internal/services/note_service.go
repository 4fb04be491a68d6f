package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notewise/notewise-be/internal/apperrors"
	"github.com/notewise/notewise-be/internal/models"
)

// NoteFilter holds the recognized listing filters. Search matches title or
// content case-insensitively; Tags matches notes whose tag set intersects
// the given set. The two combine with AND.
type NoteFilter struct {
	Search string
	Tags   []string
}

// NoteUpdate carries the mutable note fields of an update request. Nil
// fields are left untouched.
type NoteUpdate struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
	Color   *string   `json:"color"`
}

// NoteServiceProvider defines the interface for note services.
type NoteServiceProvider interface {
	CreateNote(ownerID string, note models.Note) (models.Note, error)
	ListNotes(ownerID string, filter NoteFilter) ([]models.Note, error)
	GetNoteForUser(id, userID string) (models.Note, error)
	UpdateNoteForUser(id, userID string, update NoteUpdate) (models.Note, error)
	DeleteNoteForUser(id, userID string) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// NoteService provides business logic for notes, enforcing that per-note
// operations only ever act on notes owned by the caller.
type NoteService struct {
	db *sql.DB
}

// NewNoteService creates a new NoteService.
func NewNoteService(db *sql.DB) *NoteService {
	return &NoteService{db: db}
}

// scanNote is a helper to scan a note from a row or rows object.
func scanNote(scanner interface{ Scan(...interface{}) error }) (models.Note, error) {
	var note models.Note
	err := scanner.Scan(
		&note.ID, &note.Title, &note.Content, &note.TagsJSON,
		&note.Color, &note.UserID, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return note, err
	}
	note.PrepareForAPI()
	return note, nil
}

// CreateNote validates and stores a new note owned by ownerID.
func (s *NoteService) CreateNote(ownerID string, note models.Note) (models.Note, error) {
	note.ApplyDefaults()
	if err := note.Validate(); err != nil {
		return models.Note{}, err
	}

	now := time.Now().UTC()
	note.ID = uuid.New().String()
	note.UserID = ownerID
	note.CreatedAt = now
	note.UpdatedAt = now
	note.PrepareForSave()

	stmt, err := s.db.Prepare(`
		INSERT INTO notes(id, title, content, tags_json, color, user_id, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Note{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		note.ID, note.Title, note.Content, note.TagsJSON,
		note.Color, note.UserID, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// ListNotes returns the owner's notes matching the filter, most recently
// created first. Only notes owned by ownerID can ever appear.
func (s *NoteService) ListNotes(ownerID string, filter NoteFilter) ([]models.Note, error) {
	query := `
		SELECT id, title, content, tags_json, color, user_id, created_at, updated_at
		FROM notes WHERE user_id = ?`
	args := []interface{}{ownerID}

	if filter.Search != "" {
		// SQLite LIKE is case-insensitive for ASCII; wildcards in the term
		// are escaped so it matches as a plain substring
		term := likeEscaper.Replace(filter.Search)
		query += ` AND (title LIKE '%' || ? || '%' ESCAPE '\' OR content LIKE '%' || ? || '%' ESCAPE '\')`
		args = append(args, term, term)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		// Tags live in a JSON column, so the intersection happens here
		if len(filter.Tags) > 0 && !note.HasAnyTag(filter.Tags) {
			continue
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// getNoteByID retrieves a single note regardless of owner.
func (s *NoteService) getNoteByID(id string) (models.Note, error) {
	row := s.db.QueryRow(`
		SELECT id, title, content, tags_json, color, user_id, created_at, updated_at
		FROM notes WHERE id = ?`, id)

	note, err := scanNote(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Note{}, apperrors.NotFound("note not found")
		}
		return models.Note{}, err
	}
	return note, nil
}

// GetNoteForUser loads a note and permits the read only for its owner.
func (s *NoteService) GetNoteForUser(id, userID string) (models.Note, error) {
	note, err := s.getNoteByID(id)
	if err != nil {
		return models.Note{}, err
	}
	if note.UserID != userID {
		return models.Note{}, apperrors.Forbidden("not authorized to access this note")
	}
	return note, nil
}

// UpdateNoteForUser applies the update to a note after checking the caller
// owns it. The owner can never change.
func (s *NoteService) UpdateNoteForUser(id, userID string, update NoteUpdate) (models.Note, error) {
	note, err := s.getNoteByID(id)
	if err != nil {
		return models.Note{}, err
	}
	if note.UserID != userID {
		return models.Note{}, apperrors.Forbidden("not authorized to update this note")
	}

	if update.Title != nil {
		note.Title = *update.Title
	}
	if update.Content != nil {
		note.Content = *update.Content
	}
	if update.Tags != nil {
		note.Tags = *update.Tags
	}
	if update.Color != nil {
		note.Color = *update.Color
	}

	note.ApplyDefaults()
	if err := note.Validate(); err != nil {
		return models.Note{}, err
	}

	note.UpdatedAt = time.Now().UTC()
	note.PrepareForSave()

	stmt, err := s.db.Prepare(`
		UPDATE notes SET title = ?, content = ?, tags_json = ?, color = ?, updated_at = ?
		WHERE id = ?`)
	if err != nil {
		return models.Note{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(note.Title, note.Content, note.TagsJSON, note.Color, note.UpdatedAt, note.ID)
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// DeleteNoteForUser removes a note after checking the caller owns it.
func (s *NoteService) DeleteNoteForUser(id, userID string) error {
	note, err := s.getNoteByID(id)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return apperrors.Forbidden("not authorized to delete this note")
	}

	_, err = s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	return err
}
