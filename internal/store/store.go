// Package store persists optimization runs. The engine itself is
// persistence-free; the store is wired in at the command layer only.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ppc-cli/internal/config"
	"github.com/sells-group/ppc-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Client string          `json:"client,omitempty"`
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// Store defines the run-history persistence interface.
type Store interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q (want postgres or sqlite)", cfg.Driver)
	}
}
