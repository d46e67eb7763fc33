package generation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sermon-studio/backend/internal/generation/dispatch"
	"sermon-studio/backend/internal/model"
	"sermon-studio/backend/internal/store"
)

// fakeDispatcher returns a canned response or error without any network.
type fakeDispatcher struct {
	raw   string
	err   error
	calls int
}

func (d *fakeDispatcher) Dispatch(_ context.Context, _ string, _ model.GenerationRequest) (json.RawMessage, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return json.RawMessage(d.raw), nil
}

// countingStore counts reads so tests can observe the list cache.
type countingStore struct {
	store.GenerationStore
	lists int
}

func (s *countingStore) ListByOwner(ctx context.Context, owner string) ([]model.Generation, error) {
	s.lists++
	return s.GenerationStore.ListByOwner(ctx, owner)
}

func newTestService(d Dispatcher) (*Service, *countingStore) {
	cs := &countingStore{GenerationStore: store.NewMemoryStore()}
	return NewService(cs, d), cs
}

func TestGenerate_PersistsContentAndOutput(t *testing.T) {
	// The only usable field is the content-type-specific alias.
	svc, _ := newTestService(&fakeDispatcher{raw: `[{"sermao":"texto gerado"}]`})

	theme := model.Theme("fe")
	g, err := svc.Generate(context.Background(), "owner-1", model.GenerationRequest{
		Title:       "A Fé",
		ContentType: model.ContentTypeSermon,
		Theme:       &theme,
	})
	require.NoError(t, err)

	require.NotNil(t, g.Content)
	require.NotNil(t, g.Output)
	assert.Equal(t, "texto gerado", *g.Content)
	assert.Equal(t, *g.Content, *g.Output)
	assert.Equal(t, "owner-1", g.Owner)
	assert.Equal(t, "A Fé", g.Title)
	assert.False(t, g.CreatedAt.IsZero())

	list, err := svc.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, g.ID, list[0].ID)
}

func TestGenerate_TransportErrorPersistsNothing(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{err: &dispatch.TransportError{Endpoint: "x", Status: 500}})

	_, err := svc.Generate(context.Background(), "owner-1", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)

	list, err := svc.List(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerate_EmptyResponsePersistsNothing(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{raw: `{"status":"ok"}`})

	_, err := svc.Generate(context.Background(), "owner-1", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeDevotional,
	})
	var emptyErr *EmptyGenerationError
	require.ErrorAs(t, err, &emptyErr)

	list, err := svc.List(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerate_RequiresAuthenticatedUser(t *testing.T) {
	d := &fakeDispatcher{raw: `{"output":"texto"}`}
	svc, _ := newTestService(d)

	_, err := svc.Generate(context.Background(), "", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})
	require.ErrorIs(t, err, ErrNotAuthenticated)
	// Fails fast: no network call went out.
	assert.Zero(t, d.calls)
}

func TestList_CachesUntilInvalidated(t *testing.T) {
	svc, cs := newTestService(&fakeDispatcher{raw: `{"output":"texto"}`})
	ctx := context.Background()

	_, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	_, err = svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cs.lists, "second list must come from cache")

	_, err = svc.Generate(ctx, "owner-1", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, cs.lists, "create must invalidate the cache")
	assert.Len(t, list, 1)
}

func TestList_CacheIsPerOwner(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{raw: `{"output":"texto"}`})
	ctx := context.Background()

	_, err := svc.Generate(ctx, "owner-1", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})
	require.NoError(t, err)

	other, err := svc.List(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	mine, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCreateManual_NoDispatch(t *testing.T) {
	d := &fakeDispatcher{raw: `{"output":"ignorado"}`}
	svc, _ := newTestService(d)

	content := "Conteúdo escrito à mão"
	g, err := svc.CreateManual(context.Background(), "owner-1", model.GenerationRequest{
		Title:       "Manual",
		ContentType: model.ContentTypeDevotional,
		Content:     &content,
	})
	require.NoError(t, err)
	assert.Zero(t, d.calls)
	require.NotNil(t, g.Content)
	assert.Equal(t, content, *g.Content)
	assert.Equal(t, *g.Content, *g.Output)
}

func TestUpdate_RefreshesRecordAndCache(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{raw: `{"output":"texto"}`})
	ctx := context.Background()

	g, err := svc.Generate(ctx, "owner-1", model.GenerationRequest{
		Title:       "Antes",
		ContentType: model.ContentTypeSermon,
	})
	require.NoError(t, err)

	newTitle := "Depois"
	newContent := "Conteúdo editado"
	err = svc.Update(ctx, "owner-1", g.ID.String(), model.GenerationUpdate{
		Title:   &newTitle,
		Content: &newContent,
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Depois", list[0].Title)
	require.NotNil(t, list[0].Content)
	assert.Equal(t, "Conteúdo editado", *list[0].Content)
	assert.Equal(t, *list[0].Content, *list[0].Output)
	assert.True(t, list[0].UpdatedAt.After(g.CreatedAt) || list[0].UpdatedAt.Equal(g.CreatedAt))
}

func TestUpdate_OtherOwnerLooksLikeMissing(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{raw: `{"output":"texto"}`})
	ctx := context.Background()

	g, err := svc.Generate(ctx, "owner-1", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})
	require.NoError(t, err)

	title := "roubo"
	err = svc.Update(ctx, "owner-2", g.ID.String(), model.GenerationUpdate{Title: &title})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete_MissingIDIsRecoverable(t *testing.T) {
	svc, _ := newTestService(&fakeDispatcher{raw: `{"output":"texto"}`})
	ctx := context.Background()

	g, err := svc.Generate(ctx, "owner-1", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, "owner-1", "não-existe")
	require.ErrorIs(t, err, store.ErrNotFound)

	// The failed delete must leave the list untouched.
	list, err := svc.List(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, g.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, "owner-1", g.ID.String()))
	list, err = svc.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPersistenceError_DistinctFromGenerationFailure(t *testing.T) {
	cs := &failingStore{}
	svc := NewService(cs, &fakeDispatcher{raw: `{"output":"texto"}`})

	_, err := svc.Generate(context.Background(), "owner-1", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "create", persistErr.Op)

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
}

// failingStore rejects every write.
type failingStore struct {
	store.GenerationStore
}

func (s *failingStore) Insert(context.Context, *model.Generation) error {
	return errors.New("disk full")
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	mk := func(ct model.ContentType, created time.Time) model.Generation {
		return model.Generation{ContentType: ct, CreatedAt: created}
	}

	list := []model.Generation{
		mk(model.ContentTypeSermon, now.AddDate(0, 0, -1)),
		mk(model.ContentTypeSermon, now.AddDate(0, 0, -1)),
		mk(model.ContentTypeDevotional, now),
		// Previous month and previous year stay out of the monthly counters.
		mk(model.ContentTypeSermon, now.AddDate(0, -1, 0)),
		mk(model.ContentTypeDevotional, now.AddDate(-1, 0, 0)),
	}

	stats := ComputeStats(list, now)
	assert.Equal(t, 2, stats.SermonsThisMonth)
	assert.Equal(t, 1, stats.DevotionalsThisMonth)
	assert.Equal(t, 5, stats.TotalGenerations)
	assert.Equal(t, 2, stats.ActiveDaysThisMonth)
}
