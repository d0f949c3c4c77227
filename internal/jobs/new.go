package jobs

import (
	"fmt"

	"github.com/nguyentantai21042004/slidecast/internal/config"
)

// New opens the store selected by cfg.Store.
func New(cfg config.JobsConfig) (Store, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	}
	return nil, fmt.Errorf("unknown job store %q", cfg.Store)
}
