package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/pacer"
	"github.com/FranksOps/dossier/pkg/useragent"
)

// End-to-end: the engine drives real adapters against stub vendor backends.
func TestEngine_AcrossAdapters(t *testing.T) {
	githubSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"login":"octocat","html_url":"https://github.com/octocat","public_repos":8,"followers":1000}`)
	}))
	defer githubSrv.Close()

	redditSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer redditSrv.Close()

	client := testClient(t)
	uas := useragent.NewPool(nil)

	gh := NewGitHub(client, "")
	gh.baseURL = githubSrv.URL
	rd := NewReddit(client, uas)
	rd.baseURL = redditSrv.URL

	reg := search.NewRegistry()
	reg.Register(gh)
	reg.Register(rd)
	reg.Register(NewGoogle())

	engine := search.NewEngine(reg, search.Options{Pacer: pacer.New(0, 0)})

	run, err := engine.Run(context.Background(),
		search.Query{Text: "octocat", Type: search.TypeUsername},
		[]string{"github", "reddit", "google", "myspace"},
		nil,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(run.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(run.Results))
	}

	wantStatus := []search.Status{
		search.StatusFound,    // github stub profile
		search.StatusNotFound, // reddit 404
		search.StatusFound,    // google always redirects
		search.StatusError,    // myspace is not registered
	}
	for i, want := range wantStatus {
		if run.Results[i].Status != want {
			t.Errorf("result %d (%s): expected %s, got %s (%s)",
				i, run.Results[i].Platform, want, run.Results[i].Status, run.Results[i].Description)
		}
	}

	stats := run.Stats()
	if stats.Found != 2 || stats.NotFound != 1 || stats.Errors != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if run.Results[3].Description != "platform not supported" {
		t.Errorf("unexpected unknown-platform description: %q", run.Results[3].Description)
	}
}
