package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sermon-studio/backend/internal/model"
)

func captureServer(t *testing.T, status int, body string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		requests = append(requests, payload)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestDispatch_SermonWireShape(t *testing.T) {
	srv, requests := captureServer(t, http.StatusOK, `{"output":"texto"}`)
	d := NewDispatcher(srv.Client(), srv.URL, "http://unused.invalid")

	theme := model.Theme("fe")
	tone := model.Tone("motivacional")
	raw, err := d.Dispatch(context.Background(), "user-123", model.GenerationRequest{
		Title:       "A Fé",
		ContentType: model.ContentTypeSermon,
		Theme:       &theme,
		Tone:        &tone,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"output":"texto"}`, string(raw))

	require.Len(t, *requests, 1)
	payload := (*requests)[0]

	assert.Equal(t, "A Fé", payload["titulo"])
	assert.Equal(t, "sermon", payload["tipo_conteudo"])
	assert.Equal(t, "fe", payload["tema"])
	assert.Equal(t, "motivacional", payload["tom"])
	// Omitted optional fields travel as empty strings, never null.
	assert.Equal(t, "", payload["ocasiao"])
	assert.Equal(t, "", payload["versiculo_base"])
	// The user id is duplicated for the receiving system.
	assert.Equal(t, "user-123", payload["user_id"])
	assert.Equal(t, "user-123", payload["usuario_id"])
	// Sermon requests carry no devotional-only fields.
	assert.NotContains(t, payload, "id")
	assert.NotContains(t, payload, "content")

	sessionID, ok := payload["session_id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(sessionID)
	assert.NoError(t, err, "session_id must be a fresh uuid")
}

func TestDispatch_DevotionalWireShape(t *testing.T) {
	srv, requests := captureServer(t, http.StatusOK, `{"devocional":"texto"}`)
	d := NewDispatcher(srv.Client(), "http://unused.invalid", srv.URL)

	_, err := d.Dispatch(context.Background(), "user-123", model.GenerationRequest{
		Title:       "Manhã com Deus",
		ContentType: model.ContentTypeDevotional,
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	payload := (*requests)[0]

	assert.Equal(t, "devotional", payload["tipo_conteudo"])
	// The devotional endpoint receives a third copy of the user id and a
	// passthrough content field.
	assert.Equal(t, "user-123", payload["id"])
	assert.Equal(t, "user-123", payload["user_id"])
	assert.Equal(t, "user-123", payload["usuario_id"])
	assert.Equal(t, "", payload["content"])
	assert.NotContains(t, payload, "tom")
}

func TestDispatch_FreshSessionPerRequest(t *testing.T) {
	srv, requests := captureServer(t, http.StatusOK, `{"output":"texto"}`)
	d := NewDispatcher(srv.Client(), srv.URL, srv.URL)

	req := model.GenerationRequest{Title: "T", ContentType: model.ContentTypeSermon}
	_, err := d.Dispatch(context.Background(), "u", req)
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), "u", req)
	require.NoError(t, err)

	require.Len(t, *requests, 2)
	assert.NotEqual(t, (*requests)[0]["session_id"], (*requests)[1]["session_id"])
}

func TestDispatch_NonSuccessStatus(t *testing.T) {
	srv, requests := captureServer(t, http.StatusBadGateway, `{"error":"boom"}`)
	d := NewDispatcher(srv.Client(), srv.URL, srv.URL)

	_, err := d.Dispatch(context.Background(), "u", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusBadGateway, transportErr.Status)
	// No retry policy: exactly one call went out.
	assert.Len(t, *requests, 1)
}

func TestDispatch_UnreachableEndpoint(t *testing.T) {
	d := NewDispatcher(&http.Client{}, "http://127.0.0.1:1/unreachable", "")

	_, err := d.Dispatch(context.Background(), "u", model.GenerationRequest{
		Title:       "T",
		ContentType: model.ContentTypeSermon,
	})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Error(t, transportErr.Unwrap())
}
