package webhooks

import (
	"securehook/internal/engine/signature"
	"securehook/internal/pkg/errors"
	"securehook/internal/platform/config"
)

// Delivery is the part of an inbound webhook request the gate inspects.
type Delivery struct {
	Token     string
	Signature string
	Body      []byte
}

// Result is the outcome of Authorize: either a parsed Event to proceed with or
// a Rejection, never both.
type Result struct {
	Event     *Event
	Rejection *errors.Rejection
}

func (r Result) Proceed() bool {
	return r.Rejection == nil
}

func reject(kind errors.Kind, message string) Result {
	return Result{Rejection: errors.Reject(kind, message)}
}

// Gate authenticates webhook deliveries against the configured token and
// secret. It holds no per-request state.
type Gate struct {
	token  string
	secret string
}

func NewGate(secrets config.Secrets) *Gate {
	return &Gate{
		token:  secrets.WebhookToken,
		secret: secrets.Secret,
	}
}

// Authorize runs the checks in a fixed order and stops at the first failure:
// token, signature presence, payload shape, then the HMAC itself.
func (g *Gate) Authorize(d Delivery) Result {
	if g.token == "" || d.Token == "" || !signature.Equal(d.Token, g.token) {
		return reject(errors.KindUnauthorized, errors.MsgUnauthorized)
	}

	if d.Signature == "" {
		return reject(errors.KindMissingSignature, errors.MsgMissingSignature)
	}

	event, ok := ParseEvent(d.Body)
	if !ok {
		return reject(errors.KindInvalidPayload, errors.MsgInvalidPayload)
	}

	if !signature.Verify(g.secret, signature.TokenPayload(d.Token), d.Signature) {
		return reject(errors.KindInvalidSignature, errors.MsgInvalidSignature)
	}

	return Result{Event: event}
}
