package submissions

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

type Config struct {
	Driver string
	Path   string
	DSN    string
}

// Open picks the backend named by cfg.Driver. An empty driver means memory.
func Open(ctx context.Context, cfg Config, fs afero.Fs) (Log, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryLog(), nil
	case "file":
		return OpenFileLog(fs, pathOr(cfg.Path, "data/submissions.json"))
	case "sqlite":
		return OpenSQLiteLog(ctx, pathOr(cfg.Path, "data/submissions.db"))
	case "postgres":
		return OpenPostgresLog(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func pathOr(p, fallback string) string {
	if p == "" {
		return filepath.Clean(fallback)
	}
	return p
}
