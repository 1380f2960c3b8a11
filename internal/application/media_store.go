package application

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
)

// MediaStore is the file storage the services copy media into.
// filestore.Local implements it.
type MediaStore interface {
	Save(ctx context.Context, src filestore.Source, kind filestore.Kind, baseName string) (*filestore.SavedFile, error)
	Write(ctx context.Context, kind filestore.Kind, baseName, ext string, r io.Reader) (*filestore.SavedFile, error)
	Delete(path string) error
	Exists(path string) (bool, error)
	Owns(path string) bool
}

// discardFile removes a file that no record will reference. Failures are
// only logged; the orphan sweeper collects whatever is left behind.
func discardFile(files MediaStore, logger *zap.Logger, path string) {
	if err := files.Delete(path); err != nil {
		logger.Warn("failed to remove unreferenced file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// removeStoredFile deletes the file a record points at before the record
// itself goes. A path outside the storage root is left alone and counts as
// already gone, so the record can still be removed.
func removeStoredFile(files MediaStore, logger *zap.Logger, path string) error {
	if !files.Owns(path) {
		logger.Warn("stored path is outside the media root, dropping reference only",
			zap.String("path", path),
		)
		return nil
	}
	return files.Delete(path)
}

// mapStream converts every snapshot from in until in is closed or ctx is
// done. While the consumer is busy only the newest snapshot is kept.
func mapStream[T, U any](ctx context.Context, in <-chan T, convert func(T) U) <-chan U {
	out := make(chan U)
	go func() {
		defer close(out)
		for v := range in {
			pending := convert(v)
			for sent := false; !sent; {
				select {
				case out <- pending:
					sent = true
				case nv, ok := <-in:
					if !ok {
						return
					}
					pending = convert(nv)
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
