package application

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	bookmarkDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/bookmark"
)

// ErrDuplicateMessage is the message of the Conflict returned for a URL that
// is already bookmarked.
const ErrDuplicateMessage = "this link is already saved"

// SaveBookmarkRequest holds the data to save a link.
type SaveBookmarkRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url" binding:"required"`
	Category string `json:"category"`
}

// UpdateBookmarkRequest carries the fields to change; nil fields are left
// alone.
type UpdateBookmarkRequest struct {
	Title      *string `json:"title"`
	IsFavorite *bool   `json:"is_favorite"`
}

// BookmarkDTO is the API response representation of a bookmark.
type BookmarkDTO struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Category   string    `json:"category"`
	DateAdded  time.Time `json:"date_added"`
	IsFavorite bool      `json:"is_favorite"`
}

// BookmarkService handles saved-link use cases. Duplicate URLs are detected
// against an in-memory index that is loaded from storage on first use and
// kept current by the service's own writes.
type BookmarkService struct {
	repo   bookmarkDomain.BookmarkRepository
	logger *zap.Logger

	mu     sync.Mutex
	urls   map[string]int
	loaded bool
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(repo bookmarkDomain.BookmarkRepository, logger *zap.Logger) *BookmarkService {
	return &BookmarkService{repo: repo, logger: logger, urls: make(map[string]int)}
}

// loadIndex fills the URL index once. Callers hold s.mu.
func (s *BookmarkService) loadIndex(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}
	for _, b := range all {
		s.urls[b.URL()]++
	}
	s.loaded = true
	return nil
}

// SaveBookmark stores a new link. The title defaults to the URL and the
// category to "All". A URL that is already saved is rejected with Conflict.
func (s *BookmarkService) SaveBookmark(ctx context.Context, req SaveBookmarkRequest) (*BookmarkDTO, error) {
	b, err := bookmarkDomain.NewBookmark(req.Title, req.URL, req.Category)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIndex(ctx); err != nil {
		return nil, err
	}
	if s.urls[b.URL()] > 0 {
		return nil, domain.NewConflictError(ErrDuplicateMessage)
	}

	if err := s.repo.Save(ctx, b); err != nil {
		s.logger.Error("failed to save bookmark", zap.String("url", b.URL()), zap.Error(err))
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}
	s.urls[b.URL()]++

	s.logger.Info("bookmark saved",
		zap.Int64("bookmark_id", b.ID()),
		zap.String("category", b.Category()),
	)
	return toBookmarkDTO(b), nil
}

func (s *BookmarkService) GetBookmark(ctx context.Context, id int64) (*BookmarkDTO, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBookmarkDTO(b), nil
}

// ListBookmarks returns the bookmarks in category, newest first. An empty
// category or "All" lists everything.
func (s *BookmarkService) ListBookmarks(ctx context.Context, category string) ([]BookmarkDTO, error) {
	var (
		list []*bookmarkDomain.Bookmark
		err  error
	)
	if bookmarkDomain.IsAllCategories(category) {
		list, err = s.repo.FindAll(ctx)
	} else {
		list, err = s.repo.FindByCategory(ctx, strings.TrimSpace(category))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return toBookmarkDTOs(list), nil
}

// WatchBookmarks streams the bookmarks in category until ctx is cancelled.
func (s *BookmarkService) WatchBookmarks(ctx context.Context, category string) (<-chan []BookmarkDTO, error) {
	ch, err := s.repo.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch bookmarks: %w", err)
	}
	return mapStream(ctx, ch, func(all []*bookmarkDomain.Bookmark) []BookmarkDTO {
		filtered := make([]*bookmarkDomain.Bookmark, 0, len(all))
		for _, b := range all {
			if b.InCategory(category) {
				filtered = append(filtered, b)
			}
		}
		return toBookmarkDTOs(filtered)
	}), nil
}

// Categories returns the default categories followed by any other category
// in use, ascending.
func (s *BookmarkService) Categories(ctx context.Context) ([]string, error) {
	used, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := slices.Clone(bookmarkDomain.DefaultCategories)
	for _, c := range used {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *BookmarkService) UpdateBookmarkTitle(ctx context.Context, id int64, title string) (*BookmarkDTO, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Retitle(title); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTitle(ctx, id, b.Title()); err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}
	return toBookmarkDTO(b), nil
}

func (s *BookmarkService) SetBookmarkFavorite(ctx context.Context, id int64, isFavorite bool) (*BookmarkDTO, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.SetFavorite(isFavorite)
	if err := s.repo.UpdateFavorite(ctx, id, isFavorite); err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}
	return toBookmarkDTO(b), nil
}

// UpdateBookmark applies the non-nil fields of req in turn.
func (s *BookmarkService) UpdateBookmark(ctx context.Context, id int64, req UpdateBookmarkRequest) (*BookmarkDTO, error) {
	var (
		dto *BookmarkDTO
		err error
	)
	if req.Title != nil {
		if dto, err = s.UpdateBookmarkTitle(ctx, id, *req.Title); err != nil {
			return nil, err
		}
	}
	if req.IsFavorite != nil {
		if dto, err = s.SetBookmarkFavorite(ctx, id, *req.IsFavorite); err != nil {
			return nil, err
		}
	}
	if dto == nil {
		return s.GetBookmark(ctx, id)
	}
	return dto, nil
}

// DeleteBookmark removes a bookmark. Deleting an unknown ID succeeds.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.repo.FindByID(ctx, id)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete bookmark", zap.Int64("bookmark_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if s.loaded {
		if s.urls[b.URL()]--; s.urls[b.URL()] <= 0 {
			delete(s.urls, b.URL())
		}
	}

	s.logger.Info("bookmark deleted", zap.Int64("bookmark_id", id))
	return nil
}

// BookmarkExists reports whether url is already saved.
func (s *BookmarkService) BookmarkExists(ctx context.Context, url string) (bool, error) {
	normalized, err := bookmarkDomain.NormalizeURL(url)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadIndex(ctx); err != nil {
		return false, err
	}
	return s.urls[normalized] > 0, nil
}

func (s *BookmarkService) CountBookmarks(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func toBookmarkDTO(b *bookmarkDomain.Bookmark) *BookmarkDTO {
	return &BookmarkDTO{
		ID:         b.ID(),
		Title:      b.Title(),
		URL:        b.URL(),
		Category:   b.Category(),
		DateAdded:  b.DateAdded(),
		IsFavorite: b.IsFavorite(),
	}
}

func toBookmarkDTOs(list []*bookmarkDomain.Bookmark) []BookmarkDTO {
	dtos := make([]BookmarkDTO, len(list))
	for i, b := range list {
		dtos[i] = *toBookmarkDTO(b)
	}
	return dtos
}
