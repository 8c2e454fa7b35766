package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"securehook/internal/api/middleware"
	"securehook/internal/engine/webhooks"
	"securehook/internal/pkg/errors"
	"securehook/internal/pkg/logger"
)

type SignatureResponse struct {
	Signature string `json:"signature"`
}

type SignatureHandler struct {
	issuer      *webhooks.Issuer
	maxBodySize int64
	log         zerolog.Logger
}

func NewSignatureHandler(issuer *webhooks.Issuer, maxBodySize int64) *SignatureHandler {
	return &SignatureHandler{
		issuer:      issuer,
		maxBodySize: maxBodySize,
		log:         logger.Component("signature"),
	}
}

// Generate returns the signature for the configured webhook token to callers
// presenting the password as "Authorization: <scheme> <password>".
func (h *SignatureHandler) Generate(w http.ResponseWriter, r *http.Request) {
	creds := webhooks.Credentials{Password: passwordFromHeader(r.Header.Get("Authorization"))}

	if middleware.IsJSON(r) {
		if body, err := middleware.ReadBody(w, r, h.maxBodySize); err == nil {
			creds.Token, creds.TokenMalformed = webhooks.TokenFromBody(body)
		}
	}

	sig, rej := h.issuer.Issue(creds)
	if rej != nil {
		h.log.Warn().
			Str("request_id", middleware.RequestIDFrom(r.Context())).
			Str("kind", string(rej.Kind)).
			Msg("signature request rejected")
		errors.WriteRejection(w, rej)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SignatureResponse{Signature: sig})
}

func passwordFromHeader(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
