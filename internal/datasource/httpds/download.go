package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// EnsureFile makes sure the dataset file exists at path, downloading it
// from url when it is missing or empty. A file already on disk is never
// re-fetched; deleting it forces a fresh download on the next start.
//
// The download writes to a temp file in the target directory and renames
// it into place, so a crashed download never leaves a truncated dataset
// behind.
func (c *Client) EnsureFile(ctx context.Context, url, path string) error {
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		return nil
	}
	if url == "" {
		return fmt.Errorf("httpds: dataset missing at %s and no download url configured", path)
	}

	resp, err := c.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("httpds: download dataset: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpds: download dataset: status %d", resp.StatusCode)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("httpds: create dataset dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".download-*")
	if err != nil {
		return fmt.Errorf("httpds: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("httpds: write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("httpds: close dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("httpds: move dataset into place: %w", err)
	}
	return nil
}
