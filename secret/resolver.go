package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// RefPrefix marks a configuration value as a secret reference.
const RefPrefix = "secretref:"

var (
	envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	refPattern    = regexp.MustCompile(`secretref:([^:\s]+):([^\s]+)`)
)

// Resolver turns configuration values into usable credentials. Values go
// through strict environment expansion first, then any secretref tokens
// are resolved through the matching provider.
type Resolver struct {
	providers map[string]Provider

	// strict rejects empty resolved values, which almost always mean a
	// misconfigured reference rather than an intentionally blank secret.
	strict bool
}

// NewResolver creates a resolver over the given providers.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider), strict: strict}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider, replacing any previous one with the same name.
func (r *Resolver) Register(p Provider) {
	if p == nil {
		return
	}
	r.providers[p.Name()] = p
}

// ResolveValue expands environment variables in value and resolves every
// secretref token, whether the value is a bare reference or embeds one
// inside a larger string such as a connection URL.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}

	matches := refPattern.FindAllStringSubmatchIndex(expanded, -1)
	out := expanded
	// Replace from the end so earlier match offsets stay valid.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		resolved, err := r.resolve(ctx, out[m[2]:m[3]], out[m[4]:m[5]])
		if err != nil {
			return "", err
		}
		out = out[:m[0]] + resolved + out[m[1]:]
	}
	return out, nil
}

// ParseRef splits a full "secretref:<provider>:<ref>" value. ok is false
// when value is not a well-formed reference.
func ParseRef(value string) (provider, ref string, ok bool) {
	if !strings.HasPrefix(value, RefPrefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, RefPrefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func (r *Resolver) resolve(ctx context.Context, providerName, ref string) (string, error) {
	provider, ok := r.providers[providerName]
	if !ok {
		return "", fmt.Errorf("secret: provider %q is not registered", providerName)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("secret: resolve %s:%s: %w", providerName, ref, err)
	}
	if r.strict && resolved == "" {
		return "", fmt.Errorf("secret: provider %q returned an empty value for %q", providerName, ref)
	}
	return resolved, nil
}

// Close closes every registered provider, joining any errors.
func (r *Resolver) Close() error {
	var errs []error
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExpandEnvStrict expands ${VAR} and $VAR via os.ExpandEnv, but errors if
// a ${VAR} form names a variable missing from the environment. "$$" emits
// a literal "$".
func ExpandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00HEALTHOPS_SECRET_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	var missing []string
	seen := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(s, -1) {
		key := match[1]
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := os.LookupEnv(key); !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("secret: missing environment variables: %s", strings.Join(missing, ", "))
	}

	s = os.ExpandEnv(s)
	return strings.ReplaceAll(s, dollarSentinel, "$"), nil
}
