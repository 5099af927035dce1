package search

import "time"

// QueryType is the semantic category of the search input.
type QueryType string

const (
	TypeEmail    QueryType = "email"
	TypePhone    QueryType = "phone"
	TypeUsername QueryType = "username"
	TypeName     QueryType = "name"
)

// Types lists the supported query types in display order.
func Types() []QueryType {
	return []QueryType{TypeEmail, TypePhone, TypeUsername, TypeName}
}

// Query is the immutable input to a search run.
type Query struct {
	Text string    `json:"text"`
	Type QueryType `json:"type"`
}

// Status classifies the outcome of one platform lookup.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Result is the normalized outcome of querying one platform. Exactly one is
// produced per platform per run, appended in input order and never mutated
// afterwards. A StatusError result carries the failure cause in Description
// and has no Content.
type Result struct {
	Platform    string    `json:"platform"`
	Status      Status    `json:"status"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Run aggregates everything belonging to a single engine invocation. It is
// owned exclusively by that invocation and is never shared between
// concurrent runs.
type Run struct {
	ID         string    `json:"id"`
	Query      Query     `json:"query"`
	Platforms  []string  `json:"platforms"`
	Results    []Result  `json:"results"`
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Stats summarizes a run.
type Stats struct {
	Total     int `json:"total"`
	Found     int `json:"found"`
	NotFound  int `json:"not_found"`
	Errors    int `json:"errors"`
	Completed int `json:"completed"`
}

// Stats derives summary counts from the run's results.
func (r *Run) Stats() Stats {
	s := Stats{
		Total:     r.Total,
		Completed: r.Completed,
	}
	for _, res := range r.Results {
		switch res.Status {
		case StatusFound:
			s.Found++
		case StatusNotFound:
			s.NotFound++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// Duration reports the wall time of a completed run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
