// This adapter wires the Postgres backend into the store factory so the
// wiring layer can obtain a Repository via store.New without importing
// this package directly.
package postgres

import (
	"context"

	"projex/internal/store"
)

var newRepository = NewRepository

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
	store.Register("postgres", func(ctx context.Context, cfg store.Config) (store.Repository, error) {
		r, closeFn, err := newRepository(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
