package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/response"
)

// favoriteRequest is the body of the PUT .../favorite endpoints.
type favoriteRequest struct {
	IsFavorite *bool `json:"is_favorite" binding:"required"`
}

// uploadFields locate the media when it is not sent as a multipart file.
type uploadFields struct {
	Locator  string `json:"locator" form:"locator"`
	MimeType string `json:"mime_type" form:"mime_type"`
}

// parseID reads a positive int64 path parameter.
func parseID(c *gin.Context, entity string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, fmt.Sprintf("invalid %s ID", entity))
		return 0, false
	}
	return id, true
}

// mediaSource returns the multipart "file" part when present, otherwise the
// locator from the bound request.
func mediaSource(c *gin.Context, fields uploadFields) (filestore.Source, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err == nil {
			mediaType := fh.Header.Get("Content-Type")
			if fields.MimeType != "" {
				mediaType = fields.MimeType
			}
			if mediaType == "application/octet-stream" {
				mediaType = ""
			}
			return filestore.ReaderSource{
				OpenFunc: func() (io.ReadCloser, error) { return fh.Open() },
				Type:     mediaType,
			}, nil
		}
		if err != http.ErrMissingFile {
			return nil, domain.NewValidationError("invalid multipart upload")
		}
	}
	if fields.Locator == "" {
		return nil, domain.NewValidationError("either a file upload or a locator is required")
	}
	return filestore.ResolveLocator(fields.Locator, fields.MimeType)
}

// streamSSE writes each value from ch as a server-sent event until ch is
// closed, which happens once the client disconnects.
func streamSSE[T any](c *gin.Context, event string, ch <-chan T) {
	// Streams outlive the server's write timeout.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		v, ok := <-ch
		if !ok {
			return false
		}
		c.SSEvent(event, v)
		return true
	})
}
