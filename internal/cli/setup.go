package cli

import (
	"fmt"

	"github.com/lazypower/persona/internal/config"
	"github.com/lazypower/persona/internal/engine"
	"github.com/lazypower/persona/internal/store"
	"github.com/lazypower/persona/internal/taxonomy"
)

// setup loads config, opens the database, and wires the engine. The caller
// owns closing the returned DB.
func setup() (config.Config, *store.DB, *engine.Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, nil, err
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return cfg, nil, nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("open database: %w", err)
	}

	tax := taxonomy.Default()
	if cfg.Taxonomy.Path != "" {
		tax, err = taxonomy.Load(cfg.Taxonomy.Path)
		if err != nil {
			db.Close()
			return cfg, nil, nil, err
		}
	}

	return cfg, db, engine.New(db, tax, cfg.Params()), nil
}
