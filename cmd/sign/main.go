// Command sign prints the webhook signature for a token, or a bcrypt hash for
// PASSWORD_HASH, using the same configuration as the server.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"

	"securehook/internal/engine/signature"
	"securehook/internal/platform/auth"
	"securehook/internal/platform/config"
)

func main() {
	token := flag.String("token", "", "Webhook token to sign (defaults to WEBHOOK_TOKEN)")
	hashPassword := flag.String("hash-password", "", "Print a bcrypt hash of this password and exit")
	configPath := flag.String("config", "configs/config.yaml", "Path to config file (optional)")

	flag.Parse()

	if *hashPassword != "" {
		hashed, err := auth.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hashed)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *token == "" {
		*token = cfg.Secrets.WebhookToken
	}
	if *token == "" {
		log.Fatal("--token flag or WEBHOOK_TOKEN required")
	}

	sig, err := signature.Sign(cfg.Secrets.Secret, signature.TokenPayload(*token))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("signature: %s\n", sig)
	fmt.Printf("path:      %s\n", webhookPath(*token, sig))
}

// webhookPath is the delivery path for token, with the token escaped as a
// single path segment.
func webhookPath(token, sig string) string {
	return "/webhook/" + url.PathEscape(token) + "/" + sig
}
