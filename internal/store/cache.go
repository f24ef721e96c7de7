package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"projex/internal/metrics"
	"projex/pkg/records"
)

// FileCache wraps a file-backed Repository and serves cached rows while
// the underlying file is unchanged. Change detection hashes the file's
// identity (path, size, mtime) rather than its content, so a render pass
// costs one stat instead of a full reload.
type FileCache struct {
	inner Repository
	path  string

	mu   sync.Mutex
	tag  uint64
	rows []records.Record
	sum  Summary
	warm bool
}

// NewFileCache wraps inner, watching path for changes.
func NewFileCache(inner Repository, path string) *FileCache {
	return &FileCache{inner: inner, path: path}
}

// LoadExceptions returns the cached rows when the file is unchanged,
// reloading through the wrapped Repository otherwise. Callers must not
// mutate the returned slice; the preparation pipeline clones before
// writing.
func (c *FileCache) LoadExceptions(ctx context.Context) ([]records.Record, error) {
	tag, err := c.fingerprint()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warm && tag == c.tag {
		return c.rows, nil
	}

	rows, err := c.inner.LoadExceptions(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := c.inner.LoadSummaryMetrics(ctx)
	if err != nil {
		return nil, err
	}
	c.rows, c.sum, c.tag, c.warm = rows, sum, tag, true
	metrics.RecordReload("filecache")
	return rows, nil
}

func (c *FileCache) LoadSummaryMetrics(ctx context.Context) (Summary, error) {
	if _, err := c.LoadExceptions(ctx); err != nil {
		return Summary{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sum, nil
}

func (c *FileCache) Close() { c.inner.Close() }

func (c *FileCache) fingerprint() (uint64, error) {
	fi, err := os.Stat(c.path)
	if err != nil {
		return 0, fmt.Errorf("stat dataset: %w", err)
	}
	key := c.path + "|" + strconv.FormatInt(fi.Size(), 10) + "|" + strconv.FormatInt(fi.ModTime().UnixNano(), 10)
	return xxh3.HashString(key), nil
}
