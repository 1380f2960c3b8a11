package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	bookmarkDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/bookmark"
)

// BookmarkModel is the GORM model for the bookmarks table.
type BookmarkModel struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	Title      string    `gorm:"type:text;not null"`
	URL        string    `gorm:"column:url;type:text;not null;index"`
	Category   string    `gorm:"type:varchar(100);not null;index"`
	DateAdded  time.Time `gorm:"not null;index"`
	IsFavorite bool      `gorm:"not null"`
}

// TableName sets the table name.
func (BookmarkModel) TableName() string { return "bookmarks" }

// GormBookmarkRepository implements BookmarkRepository using GORM.
type GormBookmarkRepository struct {
	db   *gorm.DB
	live *liveQuery[[]*bookmarkDomain.Bookmark]
}

// NewGormBookmarkRepository creates a new GormBookmarkRepository.
func NewGormBookmarkRepository(db *gorm.DB, log *zap.Logger) *GormBookmarkRepository {
	r := &GormBookmarkRepository{db: db}
	r.live = newLiveQuery("bookmarks", r.FindAll, log)
	return r
}

// Save inserts a new bookmark. URL uniqueness is not enforced here.
func (r *GormBookmarkRepository) Save(ctx context.Context, bookmark *bookmarkDomain.Bookmark) error {
	model := toBookmarkModel(bookmark)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.NewStorageError("insert bookmark", err)
	}
	bookmark.AssignID(model.ID)
	r.live.refresh(ctx)
	return nil
}

func (r *GormBookmarkRepository) Update(ctx context.Context, bookmark *bookmarkDomain.Bookmark) error {
	return r.updateColumns(ctx, bookmark.ID(), map[string]any{
		"title":       bookmark.Title(),
		"url":         bookmark.URL(),
		"category":    bookmark.Category(),
		"is_favorite": bookmark.IsFavorite(),
	})
}

func (r *GormBookmarkRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	return r.updateColumns(ctx, id, map[string]any{"title": title})
}

func (r *GormBookmarkRepository) UpdateFavorite(ctx context.Context, id int64, isFavorite bool) error {
	return r.updateColumns(ctx, id, map[string]any{"is_favorite": isFavorite})
}

func (r *GormBookmarkRepository) updateColumns(ctx context.Context, id int64, columns map[string]any) error {
	result := r.db.WithContext(ctx).Model(&BookmarkModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return domain.NewStorageError("update bookmark", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Bookmark", strconv.FormatInt(id, 10))
	}
	r.live.refresh(ctx)
	return nil
}

// Delete removes the bookmark row. Deleting a missing row is not an error.
func (r *GormBookmarkRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&BookmarkModel{}, id)
	if result.Error != nil {
		return domain.NewStorageError("delete bookmark", result.Error)
	}
	if result.RowsAffected > 0 {
		r.live.refresh(ctx)
	}
	return nil
}

func (r *GormBookmarkRepository) FindByID(ctx context.Context, id int64) (*bookmarkDomain.Bookmark, error) {
	return r.findOne(ctx, "id = ?", id, strconv.FormatInt(id, 10))
}

// FindByURL returns the oldest bookmark saved for url.
func (r *GormBookmarkRepository) FindByURL(ctx context.Context, url string) (*bookmarkDomain.Bookmark, error) {
	return r.findOne(ctx, "url = ?", url, url)
}

func (r *GormBookmarkRepository) findOne(ctx context.Context, cond string, arg any, label string) (*bookmarkDomain.Bookmark, error) {
	var model BookmarkModel
	if err := r.db.WithContext(ctx).Where(cond, arg).Order("id ASC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Bookmark", label)
		}
		return nil, domain.NewStorageError("find bookmark", err)
	}
	return toBookmarkDomain(&model), nil
}

// FindAll returns every bookmark, newest first.
func (r *GormBookmarkRepository) FindAll(ctx context.Context) ([]*bookmarkDomain.Bookmark, error) {
	return r.list(r.db.WithContext(ctx))
}

// FindByCategory returns the bookmarks filed under category, newest first.
func (r *GormBookmarkRepository) FindByCategory(ctx context.Context, category string) ([]*bookmarkDomain.Bookmark, error) {
	return r.list(r.db.WithContext(ctx).Where("category = ?", category))
}

func (r *GormBookmarkRepository) list(q *gorm.DB) ([]*bookmarkDomain.Bookmark, error) {
	var models []BookmarkModel
	if err := q.Order("date_added DESC, id DESC").Find(&models).Error; err != nil {
		return nil, domain.NewStorageError("list bookmarks", err)
	}

	bookmarks := make([]*bookmarkDomain.Bookmark, len(models))
	for i := range models {
		bookmarks[i] = toBookmarkDomain(&models[i])
	}
	return bookmarks, nil
}

// Categories returns the distinct categories in use, ascending.
func (r *GormBookmarkRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&BookmarkModel{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, domain.NewStorageError("list bookmark categories", err)
	}
	return categories, nil
}

func (r *GormBookmarkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&BookmarkModel{}).Count(&n).Error; err != nil {
		return 0, domain.NewStorageError("count bookmarks", err)
	}
	return n, nil
}

// Watch streams the full bookmark list until ctx is cancelled.
func (r *GormBookmarkRepository) Watch(ctx context.Context) (<-chan []*bookmarkDomain.Bookmark, error) {
	return r.live.subscribe(ctx)
}

func (r *GormBookmarkRepository) Close() { r.live.close() }

func toBookmarkModel(b *bookmarkDomain.Bookmark) BookmarkModel {
	return BookmarkModel{
		ID:         b.ID(),
		Title:      b.Title(),
		URL:        b.URL(),
		Category:   b.Category(),
		DateAdded:  b.DateAdded().UTC(),
		IsFavorite: b.IsFavorite(),
	}
}

func toBookmarkDomain(m *BookmarkModel) *bookmarkDomain.Bookmark {
	return bookmarkDomain.Reconstruct(m.ID, m.Title, m.URL, m.Category, m.DateAdded, m.IsFavorite)
}
