package cache

import (
	"context"
	"testing"

	"github.com/jonwraymond/healthops/secret"
)

func TestRedisConfig_ResolvePassword(t *testing.T) {
	t.Setenv("HEALTHOPS_REDIS_PASSWORD", "hunter2")
	resolver := secret.NewResolver(true, secret.NewEnvProvider())

	cfg := RedisConfig{Password: "secretref:env:HEALTHOPS_REDIS_PASSWORD"}
	if err := cfg.ResolvePassword(context.Background(), resolver); err != nil {
		t.Fatalf("ResolvePassword() error = %v", err)
	}
	if cfg.Password != "hunter2" {
		t.Errorf("Password = %q, want resolved value", cfg.Password)
	}
}

func TestRedisConfig_ResolvePassword_Empty(t *testing.T) {
	resolver := secret.NewResolver(true, secret.NewEnvProvider())

	cfg := RedisConfig{}
	if err := cfg.ResolvePassword(context.Background(), resolver); err != nil {
		t.Fatalf("ResolvePassword() on empty password error = %v", err)
	}
	if cfg.Password != "" {
		t.Errorf("Password = %q, want empty", cfg.Password)
	}
}

func TestRedisConfig_ResolvePassword_Missing(t *testing.T) {
	resolver := secret.NewResolver(true, secret.NewEnvProvider())

	cfg := RedisConfig{Password: "secretref:env:HEALTHOPS_REDIS_NOT_SET"}
	if err := cfg.ResolvePassword(context.Background(), resolver); err == nil {
		t.Error("ResolvePassword() with unresolvable ref should fail")
	}
}

func TestNewRedisCache_Defaults(t *testing.T) {
	c := NewRedisCache(RedisConfig{})
	defer c.Close()

	if c.keyPrefix != "healthops:" {
		t.Errorf("keyPrefix = %q, want healthops:", c.keyPrefix)
	}
}
