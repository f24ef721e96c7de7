// This adapter wires the SQL Server backend into the store factory.
package mssql

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
	store.Register("mssql", func(ctx context.Context, cfg store.Config) (store.Repository, error) {
		r, closeFn, err := newRepository(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
