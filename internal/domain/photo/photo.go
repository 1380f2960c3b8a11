package photo

import (
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

// Photo is the aggregate root for a photo kept in the app-private store.
type Photo struct {
	id            int64
	description   string
	internalPath  string
	isFavorite    bool
	isWithFriends bool
	dateAdded     time.Time
}

// NewPhoto creates a photo that references an already copied file.
func NewPhoto(description, internalPath string, isFavorite, isWithFriends bool) (*Photo, error) {
	if internalPath == "" {
		return nil, domain.NewValidationError("internal path is required")
	}

	return &Photo{
		description:   strings.TrimSpace(description),
		internalPath:  internalPath,
		isFavorite:    isFavorite,
		isWithFriends: isWithFriends,
		dateAdded:     time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Photo from persistence.
func Reconstruct(id int64, description, internalPath string, isFavorite, isWithFriends bool, dateAdded time.Time) *Photo {
	return &Photo{
		id:            id,
		description:   description,
		internalPath:  internalPath,
		isFavorite:    isFavorite,
		isWithFriends: isWithFriends,
		dateAdded:     dateAdded,
	}
}

// Getters.
func (p *Photo) ID() int64            { return p.id }
func (p *Photo) Description() string  { return p.description }
func (p *Photo) InternalPath() string { return p.internalPath }
func (p *Photo) IsFavorite() bool     { return p.isFavorite }
func (p *Photo) IsWithFriends() bool  { return p.isWithFriends }
func (p *Photo) DateAdded() time.Time { return p.dateAdded }

// AssignID records the identifier allocated by the record store.
func (p *Photo) AssignID(id int64) { p.id = id }

// UpdateDetails replaces the user-editable fields.
func (p *Photo) UpdateDetails(description string, isFavorite, isWithFriends bool) {
	p.description = strings.TrimSpace(description)
	p.isFavorite = isFavorite
	p.isWithFriends = isWithFriends
}

// SetFavorite toggles the favorite flag.
func (p *Photo) SetFavorite(isFavorite bool) {
	p.isFavorite = isFavorite
}
