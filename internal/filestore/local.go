// Package filestore keeps media files in app-private directory trees under a
// single storage root.
package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

const (
	dirPerm  = 0o750
	filePerm = 0o640

	// sniffLen matches mimetype's default read limit.
	sniffLen = 3072

	// maxNameAttempts bounds the suffix search for a free file name.
	maxNameAttempts = 1000
)

// SavedFile describes a file written into the store.
type SavedFile struct {
	Path      string
	Size      int64
	MediaType string
}

// FileInfo describes a file found while listing a directory tree.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Local stores files on the local filesystem under root.
type Local struct {
	root string
	now  func() time.Time
}

// NewLocal creates a Local store rooted at root, creating the root and every
// Kind directory if needed.
func NewLocal(root string) (*Local, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	for _, kind := range Kinds {
		if err := os.MkdirAll(filepath.Join(absRoot, string(kind)), dirPerm); err != nil {
			return nil, fmt.Errorf("create storage dir %q: %w", kind, err)
		}
	}
	return &Local{root: absRoot, now: time.Now}, nil
}

// WithClock replaces the time source used for file names.
func (l *Local) WithClock(now func() time.Time) *Local {
	l.now = now
	return l
}

// Dir returns the absolute directory for kind.
func (l *Local) Dir(kind Kind) string { return filepath.Join(l.root, string(kind)) }

// Save copies src into the kind directory and returns the absolute path of
// the new file. The extension comes from the declared media type, or from the
// content when the source declares none.
func (l *Local) Save(ctx context.Context, src Source, kind Kind, baseName string) (*SavedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewIOError("save cancelled", err)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, domain.NewIOError("could not open source for reading", err)
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, sniffLen)
	mediaType := strings.TrimSpace(src.MediaType())
	if mediaType == "" {
		head, err := br.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, domain.NewIOError("could not read source", err)
		}
		mediaType = mimetype.Detect(head).String()
	}

	saved, err := l.Write(ctx, kind, baseName, ExtensionFor(kind, mediaType), br)
	if err != nil {
		return nil, err
	}
	saved.MediaType = mediaType
	return saved, nil
}

// Write streams r into a new, uniquely named file in the kind directory.
// The file appears only once fully written; partial files are removed.
func (l *Local) Write(ctx context.Context, kind Kind, baseName, ext string, r io.Reader) (*SavedFile, error) {
	dir := l.Dir(kind)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, domain.NewIOError("could not create destination directory", err)
	}

	dest, err := l.reserve(dir, kind, baseName, ext)
	if err != nil {
		return nil, err
	}

	tmp := dest + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		os.Remove(dest) //nolint:errcheck
		return nil, domain.NewIOError("could not create destination file", err)
	}

	n, werr := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	cerr := f.Close()

	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp, dest)
	}
	if werr != nil {
		os.Remove(tmp)  //nolint:errcheck
		os.Remove(dest) //nolint:errcheck
		return nil, domain.NewIOError("could not copy media", werr)
	}

	return &SavedFile{Path: dest, Size: n}, nil
}

// reserve claims a free file name by creating it exclusively.
func (l *Local) reserve(dir string, kind Kind, baseName, ext string) (string, error) {
	at := l.now()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		dest := filepath.Join(dir, FileName(kind, baseName, ext, at, attempt))
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
		if err == nil {
			f.Close()
			return dest, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", domain.NewIOError("could not create destination file", err)
		}
	}
	return "", domain.NewIOError("could not allocate file name", fmt.Errorf("%d names taken", maxNameAttempts))
}

// abs checks that path lives under the storage root.
func (l *Local) abs(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		clean = filepath.Join(l.root, clean)
	}
	rel, err := filepath.Rel(l.root, clean)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.NewIOError("path escapes storage root", fmt.Errorf("%q", path))
	}
	return clean, nil
}

// Owns reports whether path lies under the storage root. Records written
// before the root moved point outside it.
func (l *Local) Owns(path string) bool {
	_, err := l.abs(path)
	return err == nil
}

// Delete removes the file at path. A missing file is not an error.
func (l *Local) Delete(path string) error {
	abs, err := l.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.NewIOError("could not delete file", err)
	}
	return nil
}

// Exists reports whether a regular file exists at path.
func (l *Local) Exists(path string) (bool, error) {
	abs, err := l.abs(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewIOError("could not stat file", err)
	}
	return info.Mode().IsRegular(), nil
}

// Open opens the file at path for reading. Caller must close it.
func (l *Local) Open(path string) (*os.File, error) {
	abs, err := l.abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.NewNotFoundError("File", filepath.Base(abs))
	}
	if err != nil {
		return nil, domain.NewIOError("could not open file", err)
	}
	return f, nil
}

// List returns the regular files directly inside the kind directory.
func (l *Local) List(kind Kind) ([]FileInfo, error) {
	entries, err := os.ReadDir(l.Dir(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewIOError("could not list directory", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(l.Dir(kind), e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
