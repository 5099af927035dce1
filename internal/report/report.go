package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/FranksOps/dossier/internal/search"
)

// Summary contains aggregated metrics about one search run.
type Summary struct {
	RunID     string
	Query     string
	QueryType string
	Total     int
	Found     int
	NotFound  int
	Errors    int
	Completed int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Platforms []PlatformLine
}

// PlatformLine is one per-platform row of the summary.
type PlatformLine struct {
	Platform    string
	Status      string
	URL         string
	Description string
}

// FromRun builds a Summary from a completed (or partial) run.
func FromRun(run *search.Run) Summary {
	stats := run.Stats()
	s := Summary{
		RunID:     run.ID,
		Query:     run.Query.Text,
		QueryType: string(run.Query.Type),
		Total:     stats.Total,
		Found:     stats.Found,
		NotFound:  stats.NotFound,
		Errors:    stats.Errors,
		Completed: stats.Completed,
		StartTime: run.StartedAt,
		EndTime:   run.FinishedAt,
		Duration:  run.Duration(),
	}

	for _, res := range run.Results {
		s.Platforms = append(s.Platforms, PlatformLine{
			Platform:    res.Platform,
			Status:      string(res.Status),
			URL:         res.URL,
			Description: res.Description,
		})
	}
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `Dossier Search Summary
----------------------
Query:         {{.Query}} ({{.QueryType}})
Run:           {{.RunID}}
Time:          {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Duration:      {{.Duration}}
Platforms:     {{.Completed}}/{{.Total}} searched
Found:         {{.Found}}
Not found:     {{.NotFound}}
Errors:        {{.Errors}}

Results:
{{- range .Platforms}}
  [{{.Status}}] {{.Platform}}{{if .URL}} {{.URL}}{{end}}{{if .Description}} - {{.Description}}{{end}}
{{- else}}
  None
{{- end}}
`

	tmpl, err := template.New("summary").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	if err := tmpl.Execute(w, summary); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}
