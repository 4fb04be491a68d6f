package models

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/notewise/notewise-be/internal/apperrors"
)

// DefaultColor is applied when a note is created without one.
const DefaultColor = "#ffffff"

// Note represents a single note owned by a user.
type Note struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color"`
	UserID  string `json:"userId"` // owner, immutable after creation

	// Tags are stored as a JSON string in the database.
	TagsJSON string   `json:"-"`
	Tags     []string `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks the field constraints shared by create and update.
func (n *Note) Validate() error {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return apperrors.Validation("please provide a title")
	}
	if utf8.RuneCountInString(title) > 100 {
		return apperrors.Validation("title cannot exceed 100 characters")
	}
	if n.Content == "" {
		return apperrors.Validation("please provide content")
	}
	if utf8.RuneCountInString(n.Content) > 5000 {
		return apperrors.Validation("content cannot exceed 5000 characters")
	}
	if n.Color != "" && !colorPattern.MatchString(n.Color) {
		return apperrors.Validation("please provide a valid hex color")
	}
	return nil
}

// ApplyDefaults fills in the color and tags for a note created without them.
func (n *Note) ApplyDefaults() {
	n.Title = strings.TrimSpace(n.Title)
	if n.Color == "" {
		n.Color = DefaultColor
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
}

// PrepareForSave marshals the tag slice into its JSON string for DB storage.
func (n *Note) PrepareForSave() {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	tagsBytes, _ := json.Marshal(n.Tags)
	n.TagsJSON = string(tagsBytes)
}

// PrepareForAPI unmarshals the JSON string field back into the tag slice.
func (n *Note) PrepareForAPI() {
	n.Tags = []string{}
	if n.TagsJSON != "" {
		json.Unmarshal([]byte(n.TagsJSON), &n.Tags)
	}
}

// HasAnyTag reports whether the note's tag set intersects the given set.
func (n *Note) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range n.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}
