package secret

import (
	"context"
	"fmt"
	"os"
)

// EnvProvider resolves secrets from the process environment. The ref is
// the environment variable name.
type EnvProvider struct{}

// NewEnvProvider creates an environment-backed provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Name returns "env".
func (p *EnvProvider) Name() string {
	return "env"
}

// Resolve looks the ref up as an environment variable. A missing variable
// is an error; an empty one is not.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("environment variable %q is not set", ref)
	}
	return value, nil
}

// Close is a no-op.
func (p *EnvProvider) Close() error {
	return nil
}

// Ensure EnvProvider implements Provider
var _ Provider = (*EnvProvider)(nil)
