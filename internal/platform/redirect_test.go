package platform

import (
	"context"
	"strings"
	"testing"

	"github.com/FranksOps/dossier/internal/search"
)

func TestGoogle_AlwaysFoundWithLink(t *testing.T) {
	g := NewGoogle()
	if g.CheckMethod() != search.CheckRedirect {
		t.Fatalf("expected redirect adapter")
	}

	res, err := g.Search(context.Background(), search.Query{Text: "jane@example.com", Type: search.TypeEmail})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != search.StatusFound {
		t.Errorf("redirect adapters always report found, got %s", res.Status)
	}
	if !strings.Contains(res.URL, "google.com/search") {
		t.Errorf("expected search link, got %q", res.URL)
	}
	if !strings.Contains(res.URL, "jane%40example.com") {
		t.Errorf("expected escaped query in link, got %q", res.URL)
	}
	if !strings.Contains(res.Description, "manual verification") {
		t.Errorf("expected unverified note, got %q", res.Description)
	}
}

func TestTwitter_UsernameProfileLink(t *testing.T) {
	a := NewTwitter()

	res, err := a.Search(context.Background(), search.Query{Text: "jack", Type: search.TypeUsername})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.URL != "https://x.com/jack" {
		t.Errorf("expected profile link, got %q", res.URL)
	}
}

func TestTwitter_OtherTypesSearchLink(t *testing.T) {
	a := NewTwitter()

	res, err := a.Search(context.Background(), search.Query{Text: "Jane Doe", Type: search.TypeName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.URL, "x.com/search") {
		t.Errorf("expected search link, got %q", res.URL)
	}
}
