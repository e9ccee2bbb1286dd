package note

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vikrantan5/PenSilc/internal/document"
)

// PGStore reads and writes the notes and shared_notes tables directly.
type PGStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, now: time.Now}
}

// validIDs reports whether every id is a well formed uuid. Anything else can
// never match a row and would only make postgres reject the cast.
func validIDs(ids ...string) bool {
	for _, id := range ids {
		if uuid.Validate(id) != nil {
			return false
		}
	}
	return true
}

func (s *PGStore) LoadScene(ctx context.Context, ownerID, noteID string) (document.SceneData, error) {
	if !validIDs(ownerID, noteID) {
		return document.SceneData{}, ErrNotFound
	}

	var content []byte
	err := s.pool.QueryRow(ctx,
		`SELECT content FROM notes WHERE id = $1 AND user_id = $2`,
		noteID, ownerID).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.SceneData{}, ErrNotFound
		}
		return document.SceneData{}, fmt.Errorf("load note: %w", err)
	}
	return decodeContent(noteID, content)
}

func (s *PGStore) SaveScene(ctx context.Context, ownerID, noteID string, scene document.SceneData) error {
	if !validIDs(ownerID, noteID) {
		return ErrNotFound
	}

	content, err := document.EncodeScene(scene)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE notes SET content = $3, updated_at = now() WHERE id = $1 AND user_id = $2`,
		noteID, ownerID, content)
	if err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) CreateOrGetShareLink(ctx context.Context, ownerID, noteID string) (string, error) {
	if !validIDs(ownerID, noteID) {
		return "", ErrNotFound
	}

	var shareID *string
	err := s.pool.QueryRow(ctx,
		`SELECT s.id
		   FROM notes n
		   LEFT JOIN shared_notes s ON s.note_id = n.id
		  WHERE n.id = $1 AND n.user_id = $2
		  ORDER BY s.created_at
		  LIMIT 1`,
		noteID, ownerID).Scan(&shareID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("find share link: %w", err)
	}
	if shareID != nil {
		return *shareID, nil
	}

	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO shared_notes (id, note_id) VALUES ($1, $2)`,
		id, noteID)
	if err != nil {
		if isForeignKeyError(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("create share link: %w", err)
	}
	return id, nil
}

func (s *PGStore) LoadSharedScene(ctx context.Context, shareID string) (document.SceneData, error) {
	if !validIDs(shareID) {
		return document.SceneData{}, ErrNotFound
	}

	var (
		noteID    string
		expiresAt *time.Time
		content   []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT n.id, s.expires_at, n.content
		   FROM shared_notes s
		   JOIN notes n ON n.id = s.note_id
		  WHERE s.id = $1`,
		shareID).Scan(&noteID, &expiresAt, &content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.SceneData{}, ErrNotFound
		}
		return document.SceneData{}, fmt.Errorf("load shared note: %w", err)
	}
	if expiresAt != nil && expiresAt.Before(s.now()) {
		return document.SceneData{}, ErrExpired
	}
	return decodeContent(noteID, content)
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
