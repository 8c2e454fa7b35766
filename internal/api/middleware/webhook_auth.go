package middleware

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	apiContext "securehook/internal/api/context"
	"securehook/internal/engine/webhooks"
	"securehook/internal/pkg/errors"
	"securehook/internal/pkg/logger"
)

// WebhookAuth runs the webhook gate in front of the webhook handler.
type WebhookAuth struct {
	gate        *webhooks.Gate
	maxBodySize int64
	log         zerolog.Logger
}

func NewWebhookAuth(gate *webhooks.Gate, maxBodySize int64) *WebhookAuth {
	return &WebhookAuth{
		gate:        gate,
		maxBodySize: maxBodySize,
		log:         logger.Component("webhook_auth"),
	}
}

func (m *WebhookAuth) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)

		// A body that is not JSON or cannot be read is judged as missing by
		// the gate, after the token and signature checks.
		var body []byte
		if IsJSON(r) {
			var err error
			if body, err = ReadBody(w, r, m.maxBodySize); err != nil {
				body = nil
			}
		}

		res := m.gate.Authorize(webhooks.Delivery{
			Token:     pathParam(params, "token"),
			Signature: pathParam(params, "signature"),
			Body:      body,
		})
		if !res.Proceed() {
			m.log.Warn().
				Str("request_id", RequestIDFrom(r.Context())).
				Str("kind", string(res.Rejection.Kind)).
				Msg("webhook rejected")
			errors.WriteRejection(w, res.Rejection)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Event, res.Event)
		next(w, r.WithContext(ctx))
	}
}

// pathParam unescapes a parameter matched on the escaped request path.
func pathParam(params httprouter.Params, name string) string {
	raw := params.ByName(name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return value
}

// IsJSON reports whether the request declares a JSON body. Other content
// types are treated as carrying no body.
func IsJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// ReadBody reads the request body, failing once more than limit bytes arrive.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// EventFrom returns the authenticated event stored by WebhookAuth.
func EventFrom(ctx context.Context) (*webhooks.Event, bool) {
	event, ok := ctx.Value(apiContext.Event).(*webhooks.Event)
	return event, ok && event != nil
}
