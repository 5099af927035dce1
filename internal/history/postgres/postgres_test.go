package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/FranksOps/dossier/internal/history"
	"github.com/FranksOps/dossier/internal/search"
)

func TestPostgresStore(t *testing.T) {
	// Only run this test if DOSSIER_TEST_PG_DSN is set
	dsn := os.Getenv("DOSSIER_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres store test: DOSSIER_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	s, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create Postgres store: %v", err)
	}
	defer s.Close()

	now := time.Now().UTC()
	run := &search.Run{
		ID:        "testpg-run",
		Query:     search.Query{Text: "jane@example.com", Type: search.TypeEmail},
		Platforms: []string{"hunter"},
		Results: []search.Result{
			{Platform: "hunter", Status: search.StatusFound, Description: "email is deliverable (valid)", Timestamp: now},
		},
		Completed:  1,
		Total:      1,
		StartedAt:  now,
		FinishedAt: now.Add(time.Second),
	}

	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	runs, err := s.ListRuns(ctx, history.Filter{QueryText: "jane@example.com", Limit: 1})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if len(runs[0].Results) != 1 || runs[0].Results[0].Platform != "hunter" {
		t.Errorf("unexpected results: %+v", runs[0].Results)
	}
}
