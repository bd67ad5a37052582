package oidc

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentdeck/agentdeck/pkg/middleware"
	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier checks ID tokens from an external OpenID Connect issuer, for
// deployments that sign users in through Keycloak instead of local accounts.
type Verifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// IssuerURL joins a Keycloak base URL and realm; an empty realm returns the
// base URL unchanged.
func IssuerURL(baseURL, realm string) string {
	base := strings.TrimRight(baseURL, "/")
	if realm == "" {
		return base
	}
	return base + "/realms/" + realm
}

// NewVerifier discovers the issuer and creates a verifier for clientID.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})
	return &Verifier{provider: provider, verifier: verifier}, nil
}

// Verify implements middleware.Verifier.
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idt, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idt, nil
}
