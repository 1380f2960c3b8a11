package bookmark

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

// CategoryAll is the catch-all category. Filtering by it (or by the empty
// string) returns every bookmark.
const CategoryAll = "All"

// DefaultCategories are offered when the user files a new link.
var DefaultCategories = []string{CategoryAll, "Blog", "PetShop", "Veterinarian"}

// IsAllCategories reports whether category selects every bookmark.
func IsAllCategories(category string) bool {
	category = strings.TrimSpace(category)
	return category == "" || strings.EqualFold(category, CategoryAll)
}

// Bookmark is the aggregate root for a saved web link.
type Bookmark struct {
	id         int64
	title      string
	url        string
	category   string
	dateAdded  time.Time
	isFavorite bool
}

// NewBookmark creates a bookmark after validating the URL. An empty title
// falls back to the URL and an empty category to CategoryAll.
func NewBookmark(title, rawURL, category string) (*Bookmark, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = normalized
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = CategoryAll
	}

	return &Bookmark{
		title:     title,
		url:       normalized,
		category:  category,
		dateAdded: time.Now().UTC(),
	}, nil
}

// NormalizeURL trims the input and requires an absolute http(s) URL.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", domain.NewValidationError("url is required")
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", domain.NewValidationError(fmt.Sprintf("invalid url %q: %v", rawURL, err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", domain.NewValidationError(fmt.Sprintf("url must use http or https: %q", rawURL))
	}
	if u.Host == "" {
		return "", domain.NewValidationError(fmt.Sprintf("url has no host: %q", rawURL))
	}
	return rawURL, nil
}

// Reconstruct rebuilds a Bookmark from persistence.
func Reconstruct(id int64, title, url, category string, dateAdded time.Time, isFavorite bool) *Bookmark {
	return &Bookmark{
		id:         id,
		title:      title,
		url:        url,
		category:   category,
		dateAdded:  dateAdded,
		isFavorite: isFavorite,
	}
}

func (b *Bookmark) ID() int64            { return b.id }
func (b *Bookmark) Title() string        { return b.title }
func (b *Bookmark) URL() string          { return b.url }
func (b *Bookmark) Category() string     { return b.category }
func (b *Bookmark) DateAdded() time.Time { return b.dateAdded }
func (b *Bookmark) IsFavorite() bool     { return b.isFavorite }

// AssignID records the identifier allocated by the record store.
func (b *Bookmark) AssignID(id int64) { b.id = id }

// Retitle changes the display title; blank titles are rejected.
func (b *Bookmark) Retitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.NewValidationError("title is required")
	}
	b.title = title
	return nil
}

// SetFavorite toggles the favorite flag.
func (b *Bookmark) SetFavorite(isFavorite bool) {
	b.isFavorite = isFavorite
}

// InCategory reports whether the bookmark is listed under category.
func (b *Bookmark) InCategory(category string) bool {
	return IsAllCategories(category) || b.category == strings.TrimSpace(category)
}
