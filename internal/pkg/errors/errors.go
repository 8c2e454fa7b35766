package errors

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Kind classifies why a request was rejected.
type Kind string

const (
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindMissingSignature  Kind = "MISSING_SIGNATURE"
	KindMissingCredential Kind = "MISSING_CREDENTIAL"
	KindInvalidPayload    Kind = "INVALID_PAYLOAD"
	KindInvalidSignature  Kind = "INVALID_SIGNATURE"
	KindSecretUnavailable Kind = "SECRET_UNAVAILABLE"
)

// Client-facing messages. These strings are part of the wire contract.
const (
	MsgUnauthorized      = "Unauthorized"
	MsgMissingSignature  = "Signature or timestamp header is missing"
	MsgInvalidPayload    = "Invalid payload"
	MsgInvalidSignature  = "Invalid signature"
	MsgMissingPassword   = "Webhook Password is missing"
	MsgMissingToken      = "Webhook Token is missing"
	MsgInvalidPassword   = "Unauthorized Invalid Password"
	MsgInvalidToken      = "Unauthorized Invalid Token"
	MsgSecretUnavailable = "Signing secret is not configured"
)

func (k Kind) Status() int {
	switch k {
	case KindUnauthorized, KindMissingSignature:
		return http.StatusUnauthorized
	case KindMissingCredential, KindInvalidPayload:
		return http.StatusBadRequest
	case KindInvalidSignature:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Rejection is a terminal, client-facing failure of a single request.
type Rejection struct {
	Kind    Kind
	Message string
}

func Reject(kind Kind, message string) *Rejection {
	return &Rejection{Kind: kind, Message: message}
}

func (r *Rejection) Error() string {
	return string(r.Kind) + ": " + r.Message
}

func (r *Rejection) Status() int {
	return r.Kind.Status()
}

func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteRejection writes r with the status its kind maps to.
func WriteRejection(w http.ResponseWriter, r *Rejection) {
	WriteError(w, r.Status(), r.Message)
}
