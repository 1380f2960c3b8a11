// Package cleanup reclaims disk space from media files that no record points
// at.
//
// A copy that succeeded but whose row insert failed, an old profile image
// that could not be removed after a replacement, or a *.tmp left by a crash
// mid-write all stay on disk until something removes them. Sweep removes
// such files once their mtime is older than the configured TTL, so files of
// an import still in flight are never touched.
package cleanup

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
)

// ReferenceSource reports every file path currently stored in a record.
type ReferenceSource interface {
	ReferencedPaths(ctx context.Context) (map[string]struct{}, error)
}

// FileStore lists and removes files in the managed directories.
type FileStore interface {
	List(kind filestore.Kind) ([]filestore.FileInfo, error)
	Delete(path string) error
}

// Sweeper removes orphaned and stale temporary media files.
type Sweeper struct {
	refs   ReferenceSource
	files  FileStore
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewSweeper creates a Sweeper that only removes files older than ttl.
func NewSweeper(refs ReferenceSource, files FileStore, ttl time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{refs: refs, files: files, ttl: ttl, now: time.Now, logger: logger}
}

// WithClock replaces the time source.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Sweep runs one pass over every managed directory and returns the number
// of files removed. Nothing is removed when the referenced paths cannot be
// loaded.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	refs, err := s.refs.ReferencedPaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleanup: load referenced paths: %w", err)
	}
	referenced := make(map[string]struct{}, len(refs))
	for p := range refs {
		referenced[filepath.Clean(p)] = struct{}{}
	}

	cutoff := s.now().Add(-s.ttl)
	var removed int
	for _, kind := range filestore.Kinds {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		files, err := s.files.List(kind)
		if err != nil {
			s.logger.Warn("cleanup: list failed", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}

		for _, f := range files {
			if !f.ModTime.Before(cutoff) {
				continue
			}
			if _, ok := referenced[filepath.Clean(f.Path)]; ok && !isTemp(f.Path) {
				continue
			}
			if err := s.files.Delete(f.Path); err != nil {
				s.logger.Warn("cleanup: remove failed", zap.String("path", f.Path), zap.Error(err))
				continue
			}
			removed++
			s.logger.Info("cleanup: removed orphaned file",
				zap.String("path", f.Path),
				zap.Duration("age", s.now().Sub(f.ModTime).Round(time.Minute)),
			)
		}
	}

	if removed > 0 {
		s.logger.Info("cleanup: cycle complete", zap.Int("removed", removed))
	}
	return removed, nil
}

// RunPeriodic sweeps once immediately and then on every interval until ctx
// is cancelled. It blocks; run it in its own goroutine. A non-positive
// interval disables the periodic passes.
func (s *Sweeper) RunPeriodic(ctx context.Context, interval time.Duration) {
	s.sweepAndLog(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweepAndLog(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweepAndLog(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
		s.logger.Warn("cleanup: sweep failed", zap.Error(err))
	}
}

func isTemp(path string) bool {
	return strings.HasSuffix(path, ".tmp")
}
