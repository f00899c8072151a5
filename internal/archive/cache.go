package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/open-edge-platform/apt-preflight/internal/index"
)

// Cache stores decompressed Packages text as gzip files under one
// directory, one file per (series, pocket, component).
type Cache struct {
	Dir string
}

// Path returns the cache file for one source.
func (c *Cache) Path(series string, src index.Source) string {
	return filepath.Join(c.Dir, fmt.Sprintf("%s_%s_%s.gz", series, src.Pocket, src.Component))
}

// ModTime returns the cache file's modification time, with ok false
// when the file does not exist.
func (c *Cache) ModTime(series string, src index.Source) (time.Time, bool) {
	info, err := os.Stat(c.Path(series, src))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Load reads and decompresses one cached entry. A missing or corrupt
// entry reports ok false; the caller falls back to downloading.
func (c *Cache) Load(series string, src index.Source) (string, bool) {
	f, err := os.Open(c.Path(series, src))
	if err != nil {
		return "", false
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return "", false
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Store compresses and writes one entry through a temporary file
// followed by a rename.
func (c *Cache) Store(series string, src index.Source, content string) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	path := c.Path(series, src)
	tmp, err := os.CreateTemp(c.Dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if _, err := zw.Write([]byte(content)); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finish cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache entry: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

// Clear removes every cache entry and returns how many were deleted.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".gz") {
			continue
		}
		if err := os.Remove(filepath.Join(c.Dir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}
