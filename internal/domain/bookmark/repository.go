package bookmark

import "context"

// BookmarkRepository defines persistence operations for bookmarks.
type BookmarkRepository interface {
	Save(ctx context.Context, bookmark *Bookmark) error
	Update(ctx context.Context, bookmark *Bookmark) error
	UpdateTitle(ctx context.Context, id int64, title string) error
	UpdateFavorite(ctx context.Context, id int64, isFavorite bool) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Bookmark, error)
	FindByURL(ctx context.Context, url string) (*Bookmark, error)
	FindAll(ctx context.Context) ([]*Bookmark, error)
	FindByCategory(ctx context.Context, category string) ([]*Bookmark, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	Watch(ctx context.Context) (<-chan []*Bookmark, error)
}
