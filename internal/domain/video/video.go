package video

import (
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

// UnknownDuration is stored when the file's metadata cannot be probed.
const UnknownDuration = "00:00"

// Video is the aggregate root for a video kept in the app-private store.
type Video struct {
	id           int64
	name         string
	internalPath string
	duration     string
	fileSize     int64
	dateAdded    time.Time
	description  string
	isFavorite   bool
}

// NewVideo creates a video that references an already copied file.
func NewVideo(name, internalPath, duration string, fileSize int64, description string) (*Video, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("video name is required")
	}
	if internalPath == "" {
		return nil, domain.NewValidationError("internal path is required")
	}
	if fileSize < 0 {
		return nil, domain.NewValidationError("file size must not be negative")
	}
	if duration == "" {
		duration = UnknownDuration
	}

	return &Video{
		name:         name,
		internalPath: internalPath,
		duration:     duration,
		fileSize:     fileSize,
		dateAdded:    time.Now().UTC(),
		description:  strings.TrimSpace(description),
	}, nil
}

// Reconstruct rebuilds a Video from persistence (no validation).
func Reconstruct(
	id int64,
	name, internalPath, duration string,
	fileSize int64,
	dateAdded time.Time,
	description string,
	isFavorite bool,
) *Video {
	return &Video{
		id:           id,
		name:         name,
		internalPath: internalPath,
		duration:     duration,
		fileSize:     fileSize,
		dateAdded:    dateAdded,
		description:  description,
		isFavorite:   isFavorite,
	}
}

// --- Getters ---

func (v *Video) ID() int64            { return v.id }
func (v *Video) Name() string         { return v.name }
func (v *Video) InternalPath() string { return v.internalPath }
func (v *Video) Duration() string     { return v.duration }
func (v *Video) FileSize() int64      { return v.fileSize }
func (v *Video) DateAdded() time.Time { return v.dateAdded }
func (v *Video) Description() string  { return v.description }
func (v *Video) IsFavorite() bool     { return v.isFavorite }

// --- Behavior ---

// AssignID records the identifier allocated by the record store.
func (v *Video) AssignID(id int64) { v.id = id }

// Rename changes the display name.
func (v *Video) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError("video name is required")
	}
	v.name = name
	return nil
}

// SetDescription replaces the free-text description.
func (v *Video) SetDescription(description string) {
	v.description = strings.TrimSpace(description)
}

// SetFavorite toggles the favorite flag.
func (v *Video) SetFavorite(isFavorite bool) {
	v.isFavorite = isFavorite
}
