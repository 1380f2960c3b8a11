package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	photoDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/photo"
)

// PhotoModel is the GORM model for the photos table.
type PhotoModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	Description   string    `gorm:"type:text;not null"`
	InternalPath  string    `gorm:"type:text;not null"`
	IsFavorite    bool      `gorm:"not null"`
	IsWithFriends bool      `gorm:"not null"`
	DateAdded     time.Time `gorm:"not null;index"`
}

// TableName sets the table name.
func (PhotoModel) TableName() string { return "photos" }

// GormPhotoRepository implements PhotoRepository using GORM.
type GormPhotoRepository struct {
	db   *gorm.DB
	live *liveQuery[[]*photoDomain.Photo]
}

// NewGormPhotoRepository creates a new GormPhotoRepository.
func NewGormPhotoRepository(db *gorm.DB, log *zap.Logger) *GormPhotoRepository {
	r := &GormPhotoRepository{db: db}
	r.live = newLiveQuery("photos", r.FindAll, log)
	return r
}

// Save inserts a new photo and assigns its generated ID.
func (r *GormPhotoRepository) Save(ctx context.Context, photo *photoDomain.Photo) error {
	model := toPhotoModel(photo)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.NewStorageError("insert photo", err)
	}
	photo.AssignID(model.ID)
	r.live.refresh(ctx)
	return nil
}

// Update overwrites every mutable column of an existing photo.
func (r *GormPhotoRepository) Update(ctx context.Context, photo *photoDomain.Photo) error {
	return r.updateColumns(ctx, photo.ID(), map[string]any{
		"description":     photo.Description(),
		"internal_path":   photo.InternalPath(),
		"is_favorite":     photo.IsFavorite(),
		"is_with_friends": photo.IsWithFriends(),
	})
}

// UpdateDetails sets the user-editable fields of a photo.
func (r *GormPhotoRepository) UpdateDetails(ctx context.Context, id int64, description string, isFavorite, isWithFriends bool) error {
	return r.updateColumns(ctx, id, map[string]any{
		"description":     description,
		"is_favorite":     isFavorite,
		"is_with_friends": isWithFriends,
	})
}

// UpdateFavorite sets the favorite flag of a photo.
func (r *GormPhotoRepository) UpdateFavorite(ctx context.Context, id int64, isFavorite bool) error {
	return r.updateColumns(ctx, id, map[string]any{"is_favorite": isFavorite})
}

func (r *GormPhotoRepository) updateColumns(ctx context.Context, id int64, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&PhotoModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return domain.NewStorageError("update photo", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Photo", strconv.FormatInt(id, 10))
	}
	r.live.refresh(ctx)
	return nil
}

// Delete removes the photo row. Deleting a missing row is not an error.
func (r *GormPhotoRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&PhotoModel{}, id)
	if result.Error != nil {
		return domain.NewStorageError("delete photo", result.Error)
	}
	if result.RowsAffected > 0 {
		r.live.refresh(ctx)
	}
	return nil
}

// FindByID returns a single photo by ID.
func (r *GormPhotoRepository) FindByID(ctx context.Context, id int64) (*photoDomain.Photo, error) {
	var model PhotoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Photo", strconv.FormatInt(id, 10))
		}
		return nil, domain.NewStorageError("find photo", err)
	}
	return toPhotoDomain(&model), nil
}

// FindAll returns every photo, newest first.
func (r *GormPhotoRepository) FindAll(ctx context.Context) ([]*photoDomain.Photo, error) {
	var models []PhotoModel
	if err := r.db.WithContext(ctx).Order("date_added DESC, id DESC").Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("list photos", err)
	}

	photos := make([]*photoDomain.Photo, len(models))
	for i := range models {
		photos[i] = toPhotoDomain(&models[i])
	}
	return photos, nil
}

// Count returns the number of photos.
func (r *GormPhotoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&PhotoModel{}).Count(&n).Error; err != nil {
		return 0, domain.NewStorageError("count photos", err)
	}
	return n, nil
}

// Watch streams the photo list until ctx is cancelled.
func (r *GormPhotoRepository) Watch(ctx context.Context) (<-chan []*photoDomain.Photo, error) {
	return r.live.subscribe(ctx)
}

// Close ends every open watch.
func (r *GormPhotoRepository) Close() { r.live.close() }

func toPhotoModel(p *photoDomain.Photo) PhotoModel {
	return PhotoModel{
		ID:            p.ID(),
		Description:   p.Description(),
		InternalPath:  p.InternalPath(),
		IsFavorite:    p.IsFavorite(),
		IsWithFriends: p.IsWithFriends(),
		DateAdded:     p.DateAdded().UTC(),
	}
}

func toPhotoDomain(m *PhotoModel) *photoDomain.Photo {
	return photoDomain.Reconstruct(
		m.ID,
		m.Description,
		m.InternalPath,
		m.IsFavorite,
		m.IsWithFriends,
		m.DateAdded,
	)
}
