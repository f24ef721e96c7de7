// This adapter wires the SQLite backend into the store factory.
// Registration happens in init so callers never import this package
// directly.
package sqlite

import (
	"context"

	"projex/internal/store"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adds the factory Close method on top of *Repository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ store.Repository = (*wrappedRepo)(nil)

func init() {
	store.Register("sqlite", func(ctx context.Context, cfg store.Config) (store.Repository, error) {
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		r, closeFn, err := newRepository(ctx, dsn)
		if err != nil {
			return nil, err
		}
		repo := store.Repository(&wrappedRepo{Repository: r, closeFn: closeFn})
		if cfg.Path != "" {
			repo = store.NewFileCache(repo, cfg.Path)
		}
		return repo, nil
	})
}
