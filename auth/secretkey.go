package auth

import (
	"context"
	"fmt"

	"github.com/jonwraymond/healthops/secret"
)

// SecretKeyProvider resolves the signing key through a secret resolver on
// every lookup, so key rotation in the backing store takes effect without
// a restart.
type SecretKeyProvider struct {
	resolver *secret.Resolver
	ref      string
}

// NewSecretKeyProvider creates a key provider backed by a secret reference
// (e.g. "secretref:env:HEALTHOPS_JWT_KEY" or "${HEALTHOPS_JWT_KEY}").
func NewSecretKeyProvider(resolver *secret.Resolver, ref string) *SecretKeyProvider {
	return &SecretKeyProvider{resolver: resolver, ref: ref}
}

// GetKey resolves and returns the signing key.
func (p *SecretKeyProvider) GetKey(ctx context.Context, _ string) (any, error) {
	resolved, err := p.resolver.ResolveValue(ctx, p.ref)
	if err != nil {
		return nil, fmt.Errorf("auth: resolve signing key: %w", err)
	}
	if resolved == "" {
		return nil, ErrMissingCredentials
	}
	return []byte(resolved), nil
}

// Ensure SecretKeyProvider implements KeyProvider
var _ KeyProvider = (*SecretKeyProvider)(nil)
