package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	videoDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/video"
)

// VideoModel is the GORM model for the videos table.
type VideoModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:text;not null"`
	InternalPath string    `gorm:"type:text;not null"`
	Duration     string    `gorm:"type:varchar(16);not null;default:'00:00'"`
	FileSize     int64     `gorm:"not null"`
	DateAdded    time.Time `gorm:"not null;index"`
	Description  string    `gorm:"type:text;not null"`
	IsFavorite   bool      `gorm:"not null"`
}

func (VideoModel) TableName() string { return "videos" }

// GormVideoRepository implements VideoRepository using GORM.
type GormVideoRepository struct {
	db   *gorm.DB
	live *liveQuery[[]*videoDomain.Video]
}

func NewGormVideoRepository(db *gorm.DB, log *zap.Logger) *GormVideoRepository {
	r := &GormVideoRepository{db: db}
	r.live = newLiveQuery("videos", r.FindAll, log)
	return r
}

func (r *GormVideoRepository) Save(ctx context.Context, video *videoDomain.Video) error {
	model := toVideoModel(video)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.NewStorageError("insert video", err)
	}
	video.AssignID(model.ID)
	r.live.refresh(ctx)
	return nil
}

func (r *GormVideoRepository) Update(ctx context.Context, video *videoDomain.Video) error {
	return r.updateColumns(ctx, video.ID(), map[string]any{
		"name":          video.Name(),
		"internal_path": video.InternalPath(),
		"duration":      video.Duration(),
		"file_size":     video.FileSize(),
		"description":   video.Description(),
		"is_favorite":   video.IsFavorite(),
	})
}

func (r *GormVideoRepository) UpdateName(ctx context.Context, id int64, name string) error {
	return r.updateColumns(ctx, id, map[string]any{"name": name})
}

func (r *GormVideoRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	return r.updateColumns(ctx, id, map[string]any{"description": description})
}

func (r *GormVideoRepository) UpdateFavorite(ctx context.Context, id int64, isFavorite bool) error {
	return r.updateColumns(ctx, id, map[string]any{"is_favorite": isFavorite})
}

func (r *GormVideoRepository) updateColumns(ctx context.Context, id int64, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&VideoModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return domain.NewStorageError("update video", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Video", strconv.FormatInt(id, 10))
	}
	r.live.refresh(ctx)
	return nil
}

// Delete removes the video row. Deleting a missing row is not an error.
func (r *GormVideoRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&VideoModel{}, id)
	if result.Error != nil {
		return domain.NewStorageError("delete video", result.Error)
	}
	if result.RowsAffected > 0 {
		r.live.refresh(ctx)
	}
	return nil
}

func (r *GormVideoRepository) FindByID(ctx context.Context, id int64) (*videoDomain.Video, error) {
	var model VideoModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Video", strconv.FormatInt(id, 10))
		}
		return nil, domain.NewStorageError("find video", err)
	}
	return toVideoDomain(&model), nil
}

func (r *GormVideoRepository) FindAll(ctx context.Context) ([]*videoDomain.Video, error) {
	var models []VideoModel
	if err := r.db.WithContext(ctx).Order("date_added DESC, id DESC").Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("list videos", err)
	}

	videos := make([]*videoDomain.Video, len(models))
	for i := range models {
		videos[i] = toVideoDomain(&models[i])
	}
	return videos, nil
}

func (r *GormVideoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&VideoModel{}).Count(&n).Error; err != nil {
		return 0, domain.NewStorageError("count videos", err)
	}
	return n, nil
}

func (r *GormVideoRepository) Watch(ctx context.Context) (<-chan []*videoDomain.Video, error) {
	return r.live.subscribe(ctx)
}

func (r *GormVideoRepository) Close() { r.live.close() }

func toVideoModel(v *videoDomain.Video) VideoModel {
	return VideoModel{
		ID:           v.ID(),
		Name:         v.Name(),
		InternalPath: v.InternalPath(),
		Duration:     v.Duration(),
		FileSize:     v.FileSize(),
		DateAdded:    v.DateAdded().UTC(),
		Description:  v.Description(),
		IsFavorite:   v.IsFavorite(),
	}
}

func toVideoDomain(m *VideoModel) *videoDomain.Video {
	return videoDomain.Reconstruct(
		m.ID,
		m.Name,
		m.InternalPath,
		m.Duration,
		m.FileSize,
		m.DateAdded,
		m.Description,
		m.IsFavorite,
	)
}
