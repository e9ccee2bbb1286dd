package note

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"

	"github.com/vikrantan5/PenSilc/internal/document"
)

const (
	notesTable       = "notes"
	sharedNotesTable = "shared_notes"
)

type noteRow struct {
	ID      string          `json:"id"`
	Content json.RawMessage `json:"content"`
}

type shareRow struct {
	ID        string     `json:"id"`
	NoteID    string     `json:"note_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SupabaseStore talks to the hosted backend's REST interface with a service
// key, so every owned query filters on user_id itself.
type SupabaseStore struct {
	client *supabase.Client
	now    func() time.Time
}

func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseStore{client: client, now: time.Now}, nil
}

// The REST client does not take a context; calls run to completion.

func (s *SupabaseStore) LoadScene(_ context.Context, ownerID, noteID string) (document.SceneData, error) {
	row, err := s.findOwnedNote(ownerID, noteID)
	if err != nil {
		return document.SceneData{}, err
	}
	return decodeContent(noteID, row.Content)
}

func (s *SupabaseStore) SaveScene(_ context.Context, ownerID, noteID string, scene document.SceneData) error {
	if ownerID == "" || uuid.Validate(noteID) != nil {
		return ErrNotFound
	}
	content, err := document.EncodeScene(scene)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	update := map[string]any{
		"content":    json.RawMessage(content),
		"updated_at": s.now().UTC(),
	}
	var rows []noteRow
	_, err = s.client.From(notesTable).
		Update(update, "representation", "").
		Eq("id", noteID).
		Eq("user_id", ownerID).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseStore) CreateOrGetShareLink(_ context.Context, ownerID, noteID string) (string, error) {
	if _, err := s.findOwnedNote(ownerID, noteID); err != nil {
		return "", err
	}

	var existing []shareRow
	_, err := s.client.From(sharedNotesTable).
		Select("id,note_id,expires_at", "", false).
		Eq("note_id", noteID).
		ExecuteTo(&existing)
	if err != nil {
		return "", fmt.Errorf("find share link: %w", err)
	}
	if len(existing) > 0 {
		return existing[0].ID, nil
	}

	row := shareRow{ID: uuid.NewString(), NoteID: noteID}
	var created []shareRow
	_, err = s.client.From(sharedNotesTable).
		Insert(row, false, "", "representation", "").
		ExecuteTo(&created)
	if err != nil {
		return "", fmt.Errorf("create share link: %w", err)
	}
	if len(created) > 0 {
		return created[0].ID, nil
	}
	return row.ID, nil
}

func (s *SupabaseStore) LoadSharedScene(_ context.Context, shareID string) (document.SceneData, error) {
	if uuid.Validate(shareID) != nil {
		return document.SceneData{}, ErrNotFound
	}

	var shares []shareRow
	_, err := s.client.From(sharedNotesTable).
		Select("id,note_id,expires_at", "", false).
		Eq("id", shareID).
		ExecuteTo(&shares)
	if err != nil {
		return document.SceneData{}, fmt.Errorf("load share link: %w", err)
	}
	if len(shares) == 0 {
		return document.SceneData{}, ErrNotFound
	}
	if exp := shares[0].ExpiresAt; exp != nil && exp.Before(s.now()) {
		return document.SceneData{}, ErrExpired
	}

	row, err := s.findNote(shares[0].NoteID)
	if err != nil {
		return document.SceneData{}, err
	}
	return decodeContent(row.ID, row.Content)
}

func (s *SupabaseStore) findOwnedNote(ownerID, noteID string) (noteRow, error) {
	if ownerID == "" {
		return noteRow{}, ErrNotFound
	}
	return s.queryNote(noteID, map[string]string{"user_id": ownerID})
}

// findNote looks a note up by id alone; only share links may reach it.
func (s *SupabaseStore) findNote(noteID string) (noteRow, error) {
	return s.queryNote(noteID, nil)
}

func (s *SupabaseStore) queryNote(noteID string, match map[string]string) (noteRow, error) {
	if uuid.Validate(noteID) != nil {
		return noteRow{}, ErrNotFound
	}
	q := s.client.From(notesTable).
		Select("id,content", "", false).
		Eq("id", noteID)
	for col, val := range match {
		q = q.Eq(col, val)
	}
	var rows []noteRow
	_, err := q.ExecuteTo(&rows)
	if err != nil {
		return noteRow{}, fmt.Errorf("load note: %w", err)
	}
	if len(rows) == 0 {
		return noteRow{}, ErrNotFound
	}
	return rows[0], nil
}
