package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apiContext "securehook/internal/api/context"
	"securehook/internal/engine/webhooks"
)

type failingSink struct{ called bool }

func (s *failingSink) HandleEvent(context.Context, *webhooks.Event) error {
	s.called = true
	return errors.New("downstream unavailable")
}

func withEvent(r *http.Request, event *webhooks.Event) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), apiContext.Event, event))
}

func TestWebhookHandler_SinkFailureStillAcknowledged(t *testing.T) {
	sink := &failingSink{}
	h := NewWebhookHandler(sink)

	req := withEvent(httptest.NewRequest(http.MethodPost, "/", nil), &webhooks.Event{Events: json.RawMessage(`[]`)})
	rr := httptest.NewRecorder()
	h.Receive(rr, req)

	assert.True(t, sink.called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, webhookAck, rr.Body.String())
}

func TestWebhookHandler_WithoutGate(t *testing.T) {
	sink := &failingSink{}
	rr := httptest.NewRecorder()
	NewWebhookHandler(sink).Receive(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.False(t, sink.called)
}

func TestLogSink(t *testing.T) {
	err := NewLogSink().HandleEvent(context.Background(), &webhooks.Event{
		Events:      json.RawMessage(`[{"type":"ping"}]`),
		Destination: json.RawMessage(`"inbox"`),
	})
	assert.NoError(t, err)
}

func TestPasswordFromHeader(t *testing.T) {
	tests := map[string]string{
		"Bearer hunter2":       "hunter2",
		"Basic   hunter2 ":     "hunter2",
		"Bearer":               "",
		"":                     "",
		"Bearer hunter2 extra": "hunter2",
	}
	for header, want := range tests {
		assert.Equal(t, want, passwordFromHeader(header), "header %q", header)
	}
}
