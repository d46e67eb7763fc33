// Package dispatch sends generation requests to the external content
// generation webhooks and returns their raw JSON responses.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"sermon-studio/backend/internal/model"
)

// TransportError means the generation endpoint was unreachable or returned a
// non-success status. There is no retry policy: the error propagates as-is.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("generation endpoint %s returned status %d", e.Endpoint, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Dispatcher posts generation payloads to the endpoint bound to each content
// type. Every request carries a fresh session id; optional fields travel as
// empty strings, never as null.
type Dispatcher struct {
	client             *http.Client
	sermonEndpoint     string
	devotionalEndpoint string
}

// NewDispatcher creates a Dispatcher for the two webhook endpoints.
// A nil client falls back to a default with no timeout: a hung generation
// call keeps the request pending until the remote side gives up.
func NewDispatcher(client *http.Client, sermonEndpoint, devotionalEndpoint string) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Dispatcher{
		client:             client,
		sermonEndpoint:     sermonEndpoint,
		devotionalEndpoint: devotionalEndpoint,
	}
}

// sermonPayload is the wire shape of a sermon generation request.
// Field names are contractual.
type sermonPayload struct {
	Titulo        string `json:"titulo"`
	TipoConteudo  string `json:"tipo_conteudo"`
	Tema          string `json:"tema"`
	Ocasiao       string `json:"ocasiao"`
	Tom           string `json:"tom"`
	VersiculoBase string `json:"versiculo_base"`
	UserID        string `json:"user_id"`
	UsuarioID     string `json:"usuario_id"`
	SessionID     string `json:"session_id"`
}

// devotionalPayload differs from sermonPayload: no tom, but a third copy of
// the user id under "id" and a passthrough "content" field.
type devotionalPayload struct {
	Titulo        string `json:"titulo"`
	TipoConteudo  string `json:"tipo_conteudo"`
	Tema          string `json:"tema"`
	Ocasiao       string `json:"ocasiao"`
	VersiculoBase string `json:"versiculo_base"`
	Content       string `json:"content"`
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	UsuarioID     string `json:"usuario_id"`
	SessionID     string `json:"session_id"`
}

// Dispatch sends one generation request and returns the raw response body.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, req model.GenerationRequest) (json.RawMessage, error) {
	sessionID := uuid.New().String()

	var endpoint string
	var payload any
	switch req.ContentType {
	case model.ContentTypeDevotional:
		endpoint = d.devotionalEndpoint
		payload = devotionalPayload{
			Titulo:        req.Title,
			TipoConteudo:  string(req.ContentType),
			Tema:          optional((*string)(req.Theme)),
			Ocasiao:       optional((*string)(req.Occasion)),
			VersiculoBase: optional(req.BibleVerse),
			Content:       optional(req.Content),
			ID:            userID,
			UserID:        userID,
			UsuarioID:     userID,
			SessionID:     sessionID,
		}
	default:
		endpoint = d.sermonEndpoint
		payload = sermonPayload{
			Titulo:        req.Title,
			TipoConteudo:  string(req.ContentType),
			Tema:          optional((*string)(req.Theme)),
			Ocasiao:       optional((*string)(req.Occasion)),
			Tom:           optional((*string)(req.Tone)),
			VersiculoBase: optional(req.BibleVerse),
			UserID:        userID,
			UsuarioID:     userID,
			SessionID:     sessionID,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation payload: %w", err)
	}

	log.Printf("[DISPATCH] Sending %s generation request session_id=%s", req.ContentType, sessionID)
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	log.Printf("[PERF] Generation request completed in %v session_id=%s", time.Since(start), sessionID)
	return json.RawMessage(raw), nil
}

// optional maps an absent field to the empty string the wire contract expects.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
