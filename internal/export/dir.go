package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirDestination writes artifacts as files under a local directory,
// creating it on first write.
type DirDestination struct {
	dir string
}

// NewDirDestination returns a destination rooted at dir.
func NewDirDestination(dir string) *DirDestination {
	return &DirDestination{dir: dir}
}

// Write stores data as <dir>/<name>.
func (d *DirDestination) Write(ctx context.Context, name string, data []byte) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Path returns the full path an artifact name maps to.
func (d *DirDestination) Path(name string) string {
	return filepath.Join(d.dir, name)
}
