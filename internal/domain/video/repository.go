package video

import "context"

// VideoRepository defines persistence operations for videos.
type VideoRepository interface {
	Save(ctx context.Context, video *Video) error
	Update(ctx context.Context, video *Video) error
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateDescription(ctx context.Context, id int64, description string) error
	UpdateFavorite(ctx context.Context, id int64, isFavorite bool) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Video, error)
	FindAll(ctx context.Context) ([]*Video, error)
	Count(ctx context.Context) (int64, error)
	Watch(ctx context.Context) (<-chan []*Video, error)
}
