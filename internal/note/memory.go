package note

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vikrantan5/PenSilc/internal/document"
)

type memoryNote struct {
	ownerID string
	content []byte
}

type memoryShare struct {
	noteID    string
	expiresAt time.Time
}

// MemoryStore keeps encoded scenes in process. Saving an unknown note creates
// it for the saving user, which lets local runs work without seeding.
type MemoryStore struct {
	mu     sync.RWMutex
	notes  map[string]memoryNote
	shares map[string]memoryShare
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes:  make(map[string]memoryNote),
		shares: make(map[string]memoryShare),
		now:    time.Now,
	}
}

// Seed stores a scene owned by ownerID, replacing any existing note.
func (s *MemoryStore) Seed(ownerID, noteID string, scene document.SceneData) error {
	content, err := document.EncodeScene(scene)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	s.mu.Lock()
	s.notes[noteID] = memoryNote{ownerID: ownerID, content: content}
	s.mu.Unlock()
	return nil
}

// ExpireShare sets the expiry of an existing share link.
func (s *MemoryStore) ExpireShare(shareID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh, ok := s.shares[shareID]; ok {
		sh.expiresAt = at
		s.shares[shareID] = sh
	}
}

func (s *MemoryStore) LoadScene(_ context.Context, ownerID, noteID string) (document.SceneData, error) {
	s.mu.RLock()
	n, ok := s.notes[noteID]
	s.mu.RUnlock()
	if !ok || n.ownerID != ownerID {
		return document.SceneData{}, ErrNotFound
	}
	return decodeContent(noteID, n.content)
}

func (s *MemoryStore) SaveScene(_ context.Context, ownerID, noteID string, scene document.SceneData) error {
	content, err := document.EncodeScene(scene)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[noteID]; ok && n.ownerID != ownerID {
		return ErrNotFound
	}
	s.notes[noteID] = memoryNote{ownerID: ownerID, content: content}
	return nil
}

func (s *MemoryStore) CreateOrGetShareLink(_ context.Context, ownerID, noteID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.notes[noteID]; !ok || n.ownerID != ownerID {
		return "", ErrNotFound
	}
	for id, sh := range s.shares {
		if sh.noteID == noteID {
			return id, nil
		}
	}
	id := uuid.NewString()
	s.shares[id] = memoryShare{noteID: noteID}
	return id, nil
}

func (s *MemoryStore) LoadSharedScene(_ context.Context, shareID string) (document.SceneData, error) {
	s.mu.RLock()
	sh, ok := s.shares[shareID]
	n, found := s.notes[sh.noteID]
	s.mu.RUnlock()
	if !ok || !found {
		return document.SceneData{}, ErrNotFound
	}
	if !sh.expiresAt.IsZero() && sh.expiresAt.Before(s.now()) {
		return document.SceneData{}, ErrExpired
	}
	return decodeContent(sh.noteID, n.content)
}
