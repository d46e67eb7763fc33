// Package generation orchestrates the content generation pipeline:
// dispatch a request to the generation service, normalize its response,
// persist the result and invalidate the list cache.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"sermon-studio/backend/internal/generation/response"
	"sermon-studio/backend/internal/model"
	"sermon-studio/backend/internal/store"
)

// Dispatcher abstracts the generation webhook call.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, req model.GenerationRequest) (json.RawMessage, error)
}

// Service exposes the generation operations consumed by the handler layer.
// All operations are single-shot: retrying a create may duplicate a row.
type Service struct {
	store      store.GenerationStore
	dispatcher Dispatcher
	cache      *ListCache
}

// NewService creates a Service around a record store and a dispatcher.
func NewService(st store.GenerationStore, d Dispatcher) *Service {
	return &Service{
		store:      st,
		dispatcher: d,
		cache:      NewListCache(),
	}
}

// Cache exposes the list cache so callers can observe its invalidation
// contract. The cache is owned by the service.
func (s *Service) Cache() *ListCache {
	return s.cache
}

// List returns the owner's generations newest first, served from cache until
// a mutation invalidates it.
func (s *Service) List(ctx context.Context, owner string) ([]model.Generation, error) {
	if owner == "" {
		return nil, ErrNotAuthenticated
	}
	if cached, ok := s.cache.Get(owner); ok {
		return cached, nil
	}

	list, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.cache.Set(owner, list)
	return list, nil
}

// Generate runs the full pipeline for one request: dispatch, normalize,
// persist, invalidate. Generation failures and save failures surface as
// distinct error types so the caller can tell them apart.
func (s *Service) Generate(ctx context.Context, owner string, req model.GenerationRequest) (*model.Generation, error) {
	if owner == "" {
		return nil, ErrNotAuthenticated
	}

	raw, err := s.dispatcher.Dispatch(ctx, owner, req)
	if err != nil {
		return nil, err
	}

	text, err := response.Extract(raw, req.ContentType)
	if err != nil {
		return nil, err
	}

	g := &model.Generation{
		Owner:       owner,
		Title:       req.Title,
		ContentType: req.ContentType,
		Theme:       req.Theme,
		Occasion:    req.Occasion,
		Tone:        req.Tone,
		BibleVerse:  req.BibleVerse,
	}
	g.SetContent(text)

	if err := s.store.Insert(ctx, g); err != nil {
		// The generated text is lost here: there is no retry buffer for
		// generated-but-unsaved content.
		return nil, &PersistenceError{Op: "create", Err: err}
	}

	s.cache.Invalidate(owner)
	log.Printf("[INFO] Generation saved id=%s content_type=%s", g.ID, g.ContentType)
	return g, nil
}

// CreateManual persists a record whose content the caller authored directly;
// no dispatch happens.
func (s *Service) CreateManual(ctx context.Context, owner string, req model.GenerationRequest) (*model.Generation, error) {
	if owner == "" {
		return nil, ErrNotAuthenticated
	}

	g := &model.Generation{
		Owner:       owner,
		Title:       req.Title,
		ContentType: req.ContentType,
		Theme:       req.Theme,
		Occasion:    req.Occasion,
		Tone:        req.Tone,
		BibleVerse:  req.BibleVerse,
	}
	if req.Content != nil {
		g.SetContent(*req.Content)
	}

	if err := s.store.Insert(ctx, g); err != nil {
		return nil, &PersistenceError{Op: "create", Err: err}
	}

	s.cache.Invalidate(owner)
	return g, nil
}

// Update applies a partial edit to an owned record.
func (s *Service) Update(ctx context.Context, owner string, id string, upd model.GenerationUpdate) error {
	if owner == "" {
		return ErrNotAuthenticated
	}

	if err := s.store.Update(ctx, owner, id, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return &PersistenceError{Op: "update", Err: err}
	}

	s.cache.Invalidate(owner)
	return nil
}

// Delete removes an owned record permanently. A missing id is reported, not
// fatal; the cache is only invalidated when a row was actually removed.
func (s *Service) Delete(ctx context.Context, owner string, id string) error {
	if owner == "" {
		return ErrNotAuthenticated
	}

	if err := s.store.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return err
		}
		return &PersistenceError{Op: "delete", Err: err}
	}

	s.cache.Invalidate(owner)
	return nil
}

// Get returns one owned record by id. It reads through List so viewer and
// list stay consistent with the same cache.
func (s *Service) Get(ctx context.Context, owner string, id string) (*model.Generation, error) {
	list, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID.String() == id {
			return &list[i], nil
		}
	}
	return nil, store.ErrNotFound
}
