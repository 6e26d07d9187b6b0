package history

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/config"
)

// DefaultFileName is the SQLite file created under the data directory.
const DefaultFileName = "history.db"

// Open returns the Store selected by cfg. dataDir holds the SQLite file
// when cfg.Path is empty.
func Open(ctx context.Context, cfg config.HistoryConfig, dataDir string) (Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dataDir, DefaultFileName)
		}
		return NewSQLiteStore(ctx, path)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "memory":
		return NewMemoryStore(), nil
	case "none":
		return nopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown history backend: %s", cfg.Backend)
	}
}
