package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FranksOps/dossier/internal/history"
	"github.com/FranksOps/dossier/internal/search"
	"github.com/FranksOps/dossier/pkg/pacer"
)

type fakeAdapter struct {
	id     string
	status search.Status
}

func (f *fakeAdapter) ID() string { return f.id }

func (f *fakeAdapter) Name() string { return strings.ToUpper(f.id[:1]) + f.id[1:] }

func (f *fakeAdapter) CheckMethod() search.CheckMethod { return search.CheckAPI }

func (f *fakeAdapter) Search(ctx context.Context, q search.Query) (search.Result, error) {
	return search.Result{
		Platform:    f.id,
		Status:      f.status,
		URL:         fmt.Sprintf("https://%s.example/%s", f.id, q.Text),
		Description: "stub",
	}, nil
}

type memStore struct {
	mu   sync.Mutex
	runs []*search.Run
}

func (m *memStore) SaveRun(ctx context.Context, run *search.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memStore) ListRuns(ctx context.Context, f history.Filter) ([]*search.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*search.Run(nil), m.runs...), nil
}

func (m *memStore) Close() error { return nil }

var _ history.Store = (*memStore)(nil)

func testServer(t *testing.T, store *memStore) *Server {
	t.Helper()

	reg := search.NewRegistry()
	reg.Register(&fakeAdapter{id: "github", status: search.StatusFound})
	reg.Register(&fakeAdapter{id: "reddit", status: search.StatusNotFound})

	engine := search.NewEngine(reg, search.Options{Pacer: pacer.New(0, 0)})

	var s *Server
	if store != nil {
		s = New(Config{}, engine, reg, store, nil)
	} else {
		s = New(Config{}, engine, reg, nil, nil)
	}
	return s
}

func TestHandleSearch_OK(t *testing.T) {
	s := testServer(t, nil)

	body := `{"query":"octocat","type":"username","platforms":["github","reddit"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Run == nil || len(resp.Run.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", resp.Run)
	}
	if resp.Run.Results[0].Platform != "github" || resp.Run.Results[1].Platform != "reddit" {
		t.Errorf("results out of order: %+v", resp.Run.Results)
	}
	if resp.Stats.Found != 1 || resp.Stats.NotFound != 1 {
		t.Errorf("unexpected stats: %+v", resp.Stats)
	}
}

func TestHandleSearch_DefaultsToAllPlatforms(t *testing.T) {
	s := testServer(t, nil)

	body := `{"query":"octocat","type":"username"}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Run.Total != 2 {
		t.Errorf("expected every registered platform, got total %d", resp.Run.Total)
	}
}

func TestHandleSearch_ValidationError(t *testing.T) {
	s := testServer(t, nil)

	body := `{"query":"not-an-email","type":"email","platforms":["github"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Reason != string(search.ReasonInvalidFormat) {
		t.Errorf("expected invalid_format reason, got %q", resp.Reason)
	}
}

func TestHandleSearch_BadJSON(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlePlatforms(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/platforms", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out []platformInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(out))
	}
	if out[0].ID != "github" || out[1].ID != "reddit" {
		t.Errorf("unexpected platform order: %+v", out)
	}
	if out[0].CheckMethod != "api" {
		t.Errorf("expected api check method, got %q", out[0].CheckMethod)
	}
}

func TestHandleSearch_ArchivesRun(t *testing.T) {
	store := &memStore{}
	s := testServer(t, store)

	body := `{"query":"octocat","type":"username","platforms":["github"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(store.runs) != 1 {
		t.Fatalf("expected run to be archived, got %d", len(store.runs))
	}
	if store.runs[0].Query.Text != "octocat" {
		t.Errorf("unexpected archived query: %+v", store.runs[0].Query)
	}
}

func TestHandleHealth(t *testing.T) {
	s := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	s := testServer(t, nil)
	s.cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
