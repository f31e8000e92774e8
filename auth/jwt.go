package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerPrefix is the expected Authorization header prefix.
const BearerPrefix = "Bearer "

// VerifierConfig configures the JWT verifier.
type VerifierConfig struct {
	// Issuer is the expected token issuer (iss claim). Empty skips the check.
	Issuer string

	// Audience is the expected token audience (aud claim). Empty skips
	// the check.
	Audience string

	// SubjectClaim is the claim containing the actor subject.
	// Default: "sub"
	SubjectClaim string

	// RolesClaim is the claim containing actor roles. Empty skips role
	// extraction.
	RolesClaim string
}

// KeyProvider retrieves signing keys for JWT validation.
type KeyProvider interface {
	// GetKey returns the key for the given key ID.
	GetKey(ctx context.Context, keyID string) (any, error)
}

// StaticKeyProvider provides a static signing key.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// GetKey returns the static key.
func (p *StaticKeyProvider) GetKey(_ context.Context, _ string) (any, error) {
	return p.key, nil
}

// Verifier validates Bearer JWTs and produces actors.
type Verifier struct {
	config      VerifierConfig
	keyProvider KeyProvider
}

// NewVerifier creates a JWT verifier.
func NewVerifier(config VerifierConfig, keyProvider KeyProvider) *Verifier {
	if config.SubjectClaim == "" {
		config.SubjectClaim = "sub"
	}

	return &Verifier{
		config:      config,
		keyProvider: keyProvider,
	}
}

// ExtractBearer pulls the token out of an Authorization header value.
// Returns ErrMissingCredentials when the header is empty or not a Bearer
// scheme.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredentials
	}
	token := strings.TrimPrefix(header, BearerPrefix)
	if token == header {
		return "", ErrMissingCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingCredentials
	}
	return token, nil
}

// Verify validates the token and builds the actor it represents.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		kid := ""
		if kidVal, ok := token.Header["kid"].(string); ok {
			kid = kidVal
		}
		return v.keyProvider.GetKey(ctx, kid)
	})
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenMalformed
	}

	if v.config.Issuer != "" {
		if iss, ok := claims["iss"].(string); !ok || iss != v.config.Issuer {
			return nil, ErrInvalidCredentials
		}
	}

	if v.config.Audience != "" {
		if !containsAudience(audienceClaim(claims), v.config.Audience) {
			return nil, ErrInvalidCredentials
		}
	}

	return v.buildActor(claims), nil
}

func audienceClaim(claims jwt.MapClaims) []string {
	switch v := claims["aud"].(type) {
	case string:
		return []string{v}
	case []any:
		result := make([]string, 0, len(v))
		for _, a := range v {
			if s, ok := a.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

func containsAudience(audiences []string, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}

func (v *Verifier) buildActor(claims jwt.MapClaims) *Actor {
	actor := &Actor{
		Method: MethodJWT,
		Claims: make(map[string]any, len(claims)),
	}

	for k, val := range claims {
		actor.Claims[k] = val
	}

	if subject, ok := claims[v.config.SubjectClaim].(string); ok {
		actor.Subject = subject
	}

	if v.config.RolesClaim != "" {
		if roles, ok := claims[v.config.RolesClaim].([]any); ok {
			actor.Roles = make([]string, 0, len(roles))
			for _, r := range roles {
				if s, ok := r.(string); ok {
					actor.Roles = append(actor.Roles, s)
				}
			}
		}
	}

	if exp, ok := claims["exp"].(float64); ok {
		actor.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if iat, ok := claims["iat"].(float64); ok {
		actor.IssuedAt = time.Unix(int64(iat), 0)
	}

	return actor
}

// Ensure StaticKeyProvider implements KeyProvider
var _ KeyProvider = (*StaticKeyProvider)(nil)
