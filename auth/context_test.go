package auth

import (
	"context"
	"testing"
)

func TestActorContext(t *testing.T) {
	actor := &Actor{Subject: "ops@example.com", Method: MethodJWT}
	ctx := WithActor(context.Background(), actor)

	if got := ActorFromContext(ctx); got != actor {
		t.Errorf("ActorFromContext() = %v, want the stored actor", got)
	}
	if got := SubjectFromContext(ctx); got != "ops@example.com" {
		t.Errorf("SubjectFromContext() = %q, want ops@example.com", got)
	}
}

func TestActorContext_Empty(t *testing.T) {
	ctx := context.Background()

	if got := ActorFromContext(ctx); got != nil {
		t.Errorf("ActorFromContext() = %v, want nil", got)
	}
	if got := SubjectFromContext(ctx); got != "" {
		t.Errorf("SubjectFromContext() = %q, want empty", got)
	}
}

func TestAnonymous(t *testing.T) {
	a := Anonymous()

	if !a.IsAnonymous() {
		t.Error("IsAnonymous() = false for Anonymous()")
	}
	if a.Subject != "anonymous" {
		t.Errorf("Subject = %q, want anonymous", a.Subject)
	}
	if a.IsExpired() {
		t.Error("IsExpired() = true for actor with no expiry")
	}
	if a.HasRole("admin") {
		t.Error("HasRole() = true for role-less actor")
	}
}
