package platform

import (
	"testing"

	"github.com/FranksOps/dossier/internal/fingerprint"
	"github.com/FranksOps/dossier/internal/search"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := DefaultRegistry(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"duckduckgo", "github", "google", "hunter", "reddit", "twitter"}
	ids := reg.IDs()
	if len(ids) != len(want) {
		t.Fatalf("expected %d platforms, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d]: expected %s, got %s", i, want[i], ids[i])
		}
	}

	for _, id := range []string{"github", "reddit", "hunter", "duckduckgo"} {
		a, _ := reg.Lookup(id)
		if a.CheckMethod() != search.CheckAPI {
			t.Errorf("%s: expected api check method", id)
		}
	}
	for _, id := range []string{"google", "twitter"} {
		a, _ := reg.Lookup(id)
		if a.CheckMethod() != search.CheckRedirect {
			t.Errorf("%s: expected redirect check method", id)
		}
	}
}

func TestDefaultRegistry_BadFingerprint(t *testing.T) {
	if _, err := DefaultRegistry(Config{Fingerprint: fingerprint.Profile("netscape")}); err == nil {
		t.Fatalf("expected error for unknown fingerprint profile")
	}
}

func TestNewClient_WithBrowserProfile(t *testing.T) {
	client, err := NewClient(Config{Fingerprint: fingerprint.ProfileChrome})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil {
		t.Fatalf("expected client")
	}
}
