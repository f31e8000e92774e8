package secret

import "context"

// Provider resolves one backend's secrets by reference.
//
// Implementations must be safe for concurrent use and must never log the
// values they resolve.
type Provider interface {
	// Name is the provider identifier used in secretref values.
	Name() string

	// Resolve returns the secret for ref. A missing secret is an error.
	Resolve(ctx context.Context, ref string) (string, error)

	// Close releases any backend connections.
	Close() error
}
