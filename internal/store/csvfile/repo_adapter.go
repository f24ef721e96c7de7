// This adapter wires the CSV file backend into the store factory. The
// repository is always wrapped in a FileCache so repeated render passes
// skip the parse while the file is unchanged.
package csvfile

import (
	"context"

	"projex/internal/store"
)

var newRepository = NewRepository

func init() {
	store.Register("csvfile", func(ctx context.Context, cfg store.Config) (store.Repository, error) {
		r, err := newRepository(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store.NewFileCache(r, cfg.Path), nil
	})
}
