package webhooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"securehook/internal/engine/signature"
	"securehook/internal/pkg/errors"
	"securehook/internal/platform/config"
)

var testSecrets = config.Secrets{
	WebhookToken: "hook-token",
	Password:     "hunter2",
	Secret:       "s3cr3t",
}

func signToken(t *testing.T, secret, token string) string {
	t.Helper()
	sig, err := signature.Sign(secret, signature.TokenPayload(token))
	require.NoError(t, err)
	return sig
}

func TestGate_Authorize(t *testing.T) {
	gate := NewGate(testSecrets)
	valid := signToken(t, testSecrets.Secret, testSecrets.WebhookToken)
	wrongPayload := signToken(t, testSecrets.Secret, "wrong")
	wrongSecret := signToken(t, "other", testSecrets.WebhookToken)
	body := []byte(`{"events":[{"type":"ping"}],"destination":"inbox"}`)

	tests := []struct {
		name     string
		delivery Delivery
		kind     errors.Kind
	}{
		{"Wrong Token", Delivery{Token: "nope", Signature: valid, Body: body}, errors.KindUnauthorized},
		{"Missing Token", Delivery{Signature: valid, Body: body}, errors.KindUnauthorized},
		{"Missing Signature", Delivery{Token: "hook-token", Body: body}, errors.KindMissingSignature},
		{"Missing Body", Delivery{Token: "hook-token", Signature: valid}, errors.KindInvalidPayload},
		{"Missing Events", Delivery{Token: "hook-token", Signature: valid, Body: []byte(`{"destination":"x"}`)}, errors.KindInvalidPayload},
		{"Null Events", Delivery{Token: "hook-token", Signature: valid, Body: []byte(`{"events":null}`)}, errors.KindInvalidPayload},
		{"Array Body", Delivery{Token: "hook-token", Signature: valid, Body: []byte(`[{"events":[]}]`)}, errors.KindInvalidPayload},
		{"Malformed Body", Delivery{Token: "hook-token", Signature: valid, Body: []byte(`{"events":`)}, errors.KindInvalidPayload},
		{"Signed Over Wrong Payload", Delivery{Token: "hook-token", Signature: wrongPayload, Body: body}, errors.KindInvalidSignature},
		{"Signed With Wrong Secret", Delivery{Token: "hook-token", Signature: wrongSecret, Body: body}, errors.KindInvalidSignature},
		{"Truncated Signature", Delivery{Token: "hook-token", Signature: valid[:10], Body: body}, errors.KindInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := gate.Authorize(tt.delivery)
			require.False(t, res.Proceed())
			assert.Nil(t, res.Event)
			assert.Equal(t, tt.kind, res.Rejection.Kind)
		})
	}
}

func TestGate_Authorize_Proceeds(t *testing.T) {
	gate := NewGate(testSecrets)
	res := gate.Authorize(Delivery{
		Token:     "hook-token",
		Signature: signToken(t, testSecrets.Secret, testSecrets.WebhookToken),
		Body:      []byte(`{"events":[1,2,3],"destination":"inbox"}`),
	})

	require.True(t, res.Proceed())
	assert.JSONEq(t, `[1,2,3]`, string(res.Event.Events))
	assert.JSONEq(t, `"inbox"`, string(res.Event.Destination))
	assert.True(t, res.Event.HasDestination())
}

func TestGate_WrongTokenRegardlessOfSignature(t *testing.T) {
	gate := NewGate(testSecrets)
	// A valid signature for the presented token does not help when the token
	// itself is not the configured one.
	res := gate.Authorize(Delivery{
		Token:     "intruder",
		Signature: signToken(t, testSecrets.Secret, "intruder"),
		Body:      []byte(`{"events":[]}`),
	})
	require.False(t, res.Proceed())
	assert.Equal(t, errors.KindUnauthorized, res.Rejection.Kind)
}

func TestGate_UnsetConfiguration(t *testing.T) {
	sig := signToken(t, "s3cr3t", "")
	res := NewGate(config.Secrets{Secret: "s3cr3t"}).Authorize(Delivery{Token: "", Signature: sig, Body: []byte(`{"events":[]}`)})
	assert.Equal(t, errors.KindUnauthorized, res.Rejection.Kind)

	// Token configured but no secret: every signature fails.
	gate := NewGate(config.Secrets{WebhookToken: "hook-token"})
	res = gate.Authorize(Delivery{
		Token:     "hook-token",
		Signature: signToken(t, "anything", "hook-token"),
		Body:      []byte(`{"events":[]}`),
	})
	assert.Equal(t, errors.KindInvalidSignature, res.Rejection.Kind)
}

func TestParseEvent_Truthiness(t *testing.T) {
	tests := []struct {
		body string
		ok   bool
	}{
		{`{"events":[]}`, true},
		{`{"events":{}}`, true},
		{`{"events":"x"}`, true},
		{`{"events":1}`, true},
		{`{"events":true}`, true},
		{`{"events":""}`, false},
		{`{"events":0}`, false},
		{`{"events":-0.0}`, false},
		{`{"events":false}`, false},
		{`{"events":null}`, false},
		{`  {"events":[1]}  `, true},
		{`"events"`, false},
		{``, false},
	}

	for _, tt := range tests {
		_, ok := ParseEvent([]byte(tt.body))
		assert.Equal(t, tt.ok, ok, "body %q", tt.body)
	}
}
