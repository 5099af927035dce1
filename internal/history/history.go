// Package history archives completed search runs. It is a host-side,
// opt-in collaborator: the engine itself never persists anything, hosts
// decide whether a run is worth keeping.
package history

import (
	"context"
	"time"

	"github.com/FranksOps/dossier/internal/search"
)

// Filter narrows ListRuns queries.
type Filter struct {
	QueryText string
	QueryType search.QueryType
	Since     *time.Time
	Limit     int
	Offset    int
}

// Store defines the interface for archiving and querying search runs.
type Store interface {
	SaveRun(ctx context.Context, run *search.Run) error
	ListRuns(ctx context.Context, filter Filter) ([]*search.Run, error)
	Close() error
}
