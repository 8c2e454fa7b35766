package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"securehook/internal/api/middleware"
	"securehook/internal/engine/webhooks"
	"securehook/internal/pkg/errors"
	"securehook/internal/pkg/logger"
)

const webhookAck = "Webhook received successfully"

// EventSink consumes authenticated webhook events.
type EventSink interface {
	HandleEvent(ctx context.Context, event *webhooks.Event) error
}

// LogSink records events in the service log and does nothing else.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.Component("events")}
}

func (s *LogSink) HandleEvent(ctx context.Context, event *webhooks.Event) error {
	entry := s.log.Info().
		Str("request_id", middleware.RequestIDFrom(ctx)).
		RawJSON("events", event.Events)
	if event.HasDestination() {
		entry = entry.RawJSON("destination", event.Destination)
	}
	entry.Msg("webhook events received")
	return nil
}

type WebhookHandler struct {
	sink EventSink
	log  zerolog.Logger
}

func NewWebhookHandler(sink EventSink) *WebhookHandler {
	return &WebhookHandler{sink: sink, log: logger.Component("webhook")}
}

// Receive acknowledges a delivery that already passed WebhookAuth. Sink
// failures are logged; the sender still gets its acknowledgment.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	event, ok := middleware.EventFrom(r.Context())
	if !ok {
		// Only reachable when the route is registered without WebhookAuth.
		errors.WriteError(w, http.StatusInternalServerError, "Webhook authentication not configured")
		return
	}

	if err := h.sink.HandleEvent(r.Context(), event); err != nil {
		h.log.Error().Err(err).
			Str("request_id", middleware.RequestIDFrom(r.Context())).
			Msg("event sink failed")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(webhookAck))
}
