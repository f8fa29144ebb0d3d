package main

import (
	"context"

	"github.com/sells-group/wapp-insights/internal/store"
)

// openStore opens the local snapshot database and runs migrations.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
