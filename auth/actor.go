package auth

import "time"

// Method indicates how the actor was established.
type Method string

const (
	MethodJWT       Method = "jwt"
	MethodAnonymous Method = "anonymous"
)

// Actor is the authenticated principal behind a request. Alert
// acknowledge and resolve operations record Actor.Subject.
type Actor struct {
	// Subject is the unique identifier (e.g. user ID, email).
	Subject string

	// Roles are the roles carried by the token.
	Roles []string

	// Method indicates how the actor was established.
	Method Method

	// Claims contains the raw claims from the token.
	Claims map[string]any

	// ExpiresAt is when the actor's token expires.
	ExpiresAt time.Time

	// IssuedAt is when the actor's token was issued.
	IssuedAt time.Time
}

// HasRole checks if the actor has a specific role.
func (a *Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsExpired checks if the actor's token has expired.
func (a *Actor) IsExpired() bool {
	if a.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(a.ExpiresAt)
}

// IsAnonymous returns true if this is an anonymous actor.
func (a *Actor) IsAnonymous() bool {
	return a.Method == MethodAnonymous || a.Subject == ""
}

// Anonymous creates the anonymous actor used when no credentials are
// presented.
func Anonymous() *Actor {
	return &Actor{
		Subject: "anonymous",
		Method:  MethodAnonymous,
	}
}
