package media

import (
	"context"
	"strings"
	"testing"
)

func validConfig() ResolverConfig {
	return ResolverConfig{
		BucketName:      "refcast-media",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Endpoint:        "https://storage.example.com",
	}
}

// TestNewResolverValidation tests configuration validation.
func TestNewResolverValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ResolverConfig)
		expectError bool
	}{
		{
			name:   "valid config",
			mutate: func(c *ResolverConfig) {},
		},
		{
			name:        "missing bucket",
			mutate:      func(c *ResolverConfig) { c.BucketName = "" },
			expectError: true,
		},
		{
			name:        "missing access key",
			mutate:      func(c *ResolverConfig) { c.AccessKeyID = "" },
			expectError: true,
		},
		{
			name:        "missing secret key",
			mutate:      func(c *ResolverConfig) { c.SecretAccessKey = "" },
			expectError: true,
		},
		{
			name:        "missing endpoint",
			mutate:      func(c *ResolverConfig) { c.Endpoint = "" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			_, err := NewResolver(cfg)
			if (err != nil) != tt.expectError {
				t.Errorf("NewResolver() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

// TestResolvePassthrough verifies absolute URLs skip presigning.
func TestResolvePassthrough(t *testing.T) {
	r, err := NewResolver(validConfig())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	for _, url := range []string{
		"https://cdn.example.com/chars/imke/master.png",
		"http://localhost:9000/dev/image.png",
	} {
		got, err := r.Resolve(context.Background(), url)
		if err != nil {
			t.Errorf("Resolve(%q): %v", url, err)
		}
		if got != url {
			t.Errorf("Resolve(%q) = %q, want passthrough", url, got)
		}
	}
}

// TestResolvePresignsObjectKeys verifies keys produce signed URLs against
// the configured endpoint. Presigning is a local signature computation, so
// no network access is needed.
func TestResolvePresignsObjectKeys(t *testing.T) {
	r, err := NewResolver(validConfig())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got, err := r.Resolve(context.Background(), "chars/imke/master.png")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.Contains(got, "storage.example.com") {
		t.Errorf("presigned url %q not against configured endpoint", got)
	}
	if !strings.Contains(got, "chars/imke/master.png") {
		t.Errorf("presigned url %q missing object key", got)
	}
	if !strings.Contains(got, "X-Amz-Signature") {
		t.Errorf("presigned url %q is not signed", got)
	}
}

func TestResolveEmptyURL(t *testing.T) {
	r, err := NewResolver(validConfig())
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if _, err := r.Resolve(context.Background(), ""); err == nil {
		t.Error("expected error for empty image url")
	}
}

func TestNoopResolver(t *testing.T) {
	got, err := NoopResolver{}.Resolve(context.Background(), "chars/imke/master.png")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "chars/imke/master.png" {
		t.Errorf("Resolve = %q, want unchanged input", got)
	}
}
