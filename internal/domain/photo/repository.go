package photo

import "context"

// PhotoRepository defines persistence operations for photos.
type PhotoRepository interface {
	Save(ctx context.Context, photo *Photo) error
	Update(ctx context.Context, photo *Photo) error
	UpdateDetails(ctx context.Context, id int64, description string, isFavorite, isWithFriends bool) error
	UpdateFavorite(ctx context.Context, id int64, isFavorite bool) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Photo, error)
	FindAll(ctx context.Context) ([]*Photo, error)
	Count(ctx context.Context) (int64, error)
	// Watch emits the full list now and again after every committed mutation
	// until ctx is cancelled.
	Watch(ctx context.Context) (<-chan []*Photo, error)
}
