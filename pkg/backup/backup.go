// Package backup stores timestamped copies of the configuration artifact
// before it is overwritten. Backups are best-effort safety copies, not a
// transactional guarantee: a crash between backup and write leaves the old
// artifact backed up but still live, which is the documented risk window.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Sink stores one named backup payload.
type Sink interface {
	Store(ctx context.Context, name string, data []byte) error
}

// Name builds the backup name for an artifact path at a point in time,
// e.g. "danted.conf.20260825-143000.bak".
func Name(path string, now time.Time) string {
	return fmt.Sprintf("%s.%s.bak", filepath.Base(path), now.Format("20060102-150405"))
}

// DirSink writes backups into a local directory, creating it on first use.
type DirSink struct {
	Dir string
}

// Store writes the payload under the backup directory.
func (s DirSink) Store(ctx context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write backup %s: %w", path, err)
	}
	return nil
}

// MultiSink fans one backup out to every sink, stopping at the first
// failure.
type MultiSink []Sink

// Store forwards the payload to each sink in order.
func (m MultiSink) Store(ctx context.Context, name string, data []byte) error {
	for _, sink := range m {
		if err := sink.Store(ctx, name, data); err != nil {
			return err
		}
	}
	return nil
}
