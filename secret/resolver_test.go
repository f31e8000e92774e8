package secret

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	values map[string]string
	err    error
	closed bool
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[ref], nil
}

func (s *stubProvider) Close() error {
	s.closed = true
	return nil
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		wantProvider string
		wantRef      string
		wantOK       bool
	}{
		{"full ref", "secretref:env:REDIS_PASSWORD", "env", "REDIS_PASSWORD", true},
		{"plain value", "hunter2", "", "", false},
		{"missing ref part", "secretref:env", "", "", false},
		{"empty provider", "secretref::REDIS_PASSWORD", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, ref, ok := ParseRef(tt.value)
			if ok != tt.wantOK || provider != tt.wantProvider || ref != tt.wantRef {
				t.Errorf("ParseRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.value, provider, ref, ok, tt.wantProvider, tt.wantRef, tt.wantOK)
			}
		})
	}
}

func TestResolver_FullRef(t *testing.T) {
	r := NewResolver(true, &stubProvider{values: map[string]string{"alpha": "one"}})

	got, err := r.ResolveValue(context.Background(), "secretref:stub:alpha")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "one" {
		t.Errorf("ResolveValue() = %q, want one", got)
	}
}

func TestResolver_InlineRef(t *testing.T) {
	r := NewResolver(true, &stubProvider{values: map[string]string{"pw": "hunter2"}})

	got, err := r.ResolveValue(context.Background(), "redis://:secretref:stub:pw@localhost:6379")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "redis://:hunter2@localhost:6379" {
		t.Errorf("ResolveValue() = %q, want the reference substituted in place", got)
	}
}

func TestResolver_PlainValuePassesThrough(t *testing.T) {
	r := NewResolver(true, &stubProvider{})

	got, err := r.ResolveValue(context.Background(), "no secrets here")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "no secrets here" {
		t.Errorf("ResolveValue() = %q, want the value unchanged", got)
	}
}

func TestResolver_UnknownProvider(t *testing.T) {
	r := NewResolver(true)

	_, err := r.ResolveValue(context.Background(), "secretref:vault:alpha")
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("ResolveValue() error = %v, want unregistered provider error", err)
	}
}

func TestResolver_StrictRejectsEmpty(t *testing.T) {
	r := NewResolver(true, &stubProvider{values: map[string]string{}})

	if _, err := r.ResolveValue(context.Background(), "secretref:stub:absent"); err == nil {
		t.Error("ResolveValue() of an empty secret should fail in strict mode")
	}
}

func TestResolver_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	r := NewResolver(true, &stubProvider{err: boom})

	_, err := r.ResolveValue(context.Background(), "secretref:stub:alpha")
	if !errors.Is(err, boom) {
		t.Errorf("ResolveValue() error = %v, want wrapped provider error", err)
	}
}

func TestResolver_Close(t *testing.T) {
	p := &stubProvider{}
	r := NewResolver(true, p)

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !p.closed {
		t.Error("Close() should close registered providers")
	}
}

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("HEALTHOPS_HOST", "db.internal")

	got, err := ExpandEnvStrict("host=${HEALTHOPS_HOST}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if got != "host=db.internal" {
		t.Errorf("ExpandEnvStrict() = %q", got)
	}
}

func TestExpandEnvStrict_MissingVar(t *testing.T) {
	_, err := ExpandEnvStrict("host=${HEALTHOPS_NOT_SET_ANYWHERE}")
	if err == nil || !strings.Contains(err.Error(), "HEALTHOPS_NOT_SET_ANYWHERE") {
		t.Errorf("ExpandEnvStrict() error = %v, want the missing variable named", err)
	}
}

func TestExpandEnvStrict_DollarEscape(t *testing.T) {
	t.Setenv("HEALTHOPS_X", "y")

	got, err := ExpandEnvStrict("$$${HEALTHOPS_X}")
	if err != nil {
		t.Fatalf("ExpandEnvStrict() error = %v", err)
	}
	if got != "$y" {
		t.Errorf("ExpandEnvStrict() = %q, want $y", got)
	}
}
