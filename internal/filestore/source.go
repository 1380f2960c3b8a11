package filestore

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

// Source is an opaque reference to a media blob handed in by the caller,
// together with the MIME type the caller declared for it. An empty
// MediaType means "unknown"; the store then sniffs the content.
type Source interface {
	Open() (io.ReadCloser, error)
	MediaType() string
}

// FileSource reads media from a path on the local filesystem.
type FileSource struct {
	Path string
	Type string
}

func (s FileSource) Open() (io.ReadCloser, error) { return os.Open(s.Path) }
func (s FileSource) MediaType() string            { return s.Type }

// ReaderSource adapts any opener, such as a multipart file header.
type ReaderSource struct {
	OpenFunc func() (io.ReadCloser, error)
	Type     string
}

func (s ReaderSource) Open() (io.ReadCloser, error) {
	if s.OpenFunc == nil {
		return nil, fmt.Errorf("source has no opener")
	}
	return s.OpenFunc()
}

func (s ReaderSource) MediaType() string { return s.Type }

// NewBytesSource wraps an in-memory blob.
func NewBytesSource(data []byte, mediaType string) ReaderSource {
	return ReaderSource{
		OpenFunc: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		Type: mediaType,
	}
}

// ResolveLocator turns a locator string into a Source. Supported forms are
// file:// URIs and plain filesystem paths.
func ResolveLocator(locator, mediaType string) (Source, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, domain.NewValidationError("locator is required")
	}

	if strings.Contains(locator, "://") {
		u, err := url.Parse(locator)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid locator %q", locator))
		}
		if u.Scheme != "file" {
			return nil, domain.NewValidationError(fmt.Sprintf("unsupported locator scheme %q", u.Scheme))
		}
		locator = u.Path
	}

	return FileSource{Path: filepath.Clean(locator), Type: strings.TrimSpace(mediaType)}, nil
}
