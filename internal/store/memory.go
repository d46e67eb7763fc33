package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sermon-studio/backend/internal/model"
)

// MemoryStore is a simple in-memory implementation of GenerationStore.
// It backs tests and local development without a database.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]model.Generation
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]model.Generation)}
}

func (s *MemoryStore) ListByOwner(_ context.Context, owner string) ([]model.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []model.Generation
	for _, g := range s.rows {
		if g.Owner == owner {
			results = append(results, g)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *MemoryStore) Insert(_ context.Context, g *model.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	s.rows[g.ID.String()] = *g
	return nil
}

func (s *MemoryStore) Update(_ context.Context, owner string, id string, upd model.GenerationUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rows[id]
	if !ok || g.Owner != owner {
		return ErrNotFound
	}
	if upd.Title != nil {
		g.Title = *upd.Title
	}
	if upd.Theme != nil {
		theme := *upd.Theme
		g.Theme = &theme
	}
	if upd.Occasion != nil {
		occasion := *upd.Occasion
		g.Occasion = &occasion
	}
	if upd.Tone != nil {
		tone := *upd.Tone
		g.Tone = &tone
	}
	if upd.BibleVerse != nil {
		verse := *upd.BibleVerse
		g.BibleVerse = &verse
	}
	if upd.Content != nil {
		g.SetContent(*upd.Content)
	}
	g.UpdatedAt = time.Now().UTC()
	s.rows[id] = g
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, owner string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rows[id]
	if !ok || g.Owner != owner {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
