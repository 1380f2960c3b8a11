package application

import (
	"context"
	"fmt"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	bookmarkDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/bookmark"
	photoDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/photo"
	profileDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/profile"
	videoDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/video"
)

// StatsDTO summarizes what is stored.
type StatsDTO struct {
	Photos     int64 `json:"photos"`
	Videos     int64 `json:"videos"`
	Bookmarks  int64 `json:"bookmarks"`
	HasProfile bool  `json:"has_profile"`
}

// LibraryService answers questions that span every table.
type LibraryService struct {
	photos    photoDomain.PhotoRepository
	videos    videoDomain.VideoRepository
	bookmarks bookmarkDomain.BookmarkRepository
	profile   profileDomain.ProfileRepository
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(
	photos photoDomain.PhotoRepository,
	videos videoDomain.VideoRepository,
	bookmarks bookmarkDomain.BookmarkRepository,
	profile profileDomain.ProfileRepository,
) *LibraryService {
	return &LibraryService{photos: photos, videos: videos, bookmarks: bookmarks, profile: profile}
}

// Stats returns the row counts and whether a profile has been filled in.
func (s *LibraryService) Stats(ctx context.Context) (*StatsDTO, error) {
	var (
		stats StatsDTO
		err   error
	)
	if stats.Photos, err = s.photos.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}
	if stats.Videos, err = s.videos.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}
	if stats.Bookmarks, err = s.bookmarks.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	if stats.HasProfile, err = s.profile.HasData(ctx); err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return &stats, nil
}

// ReferencedPaths returns every file path a record points at.
func (s *LibraryService) ReferencedPaths(ctx context.Context) (map[string]struct{}, error) {
	paths := make(map[string]struct{})

	photos, err := s.photos.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	for _, p := range photos {
		paths[p.InternalPath()] = struct{}{}
	}

	videos, err := s.videos.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	for _, v := range videos {
		paths[v.InternalPath()] = struct{}{}
	}

	p, err := s.profile.Find(ctx)
	switch {
	case err == nil:
		if p.ProfileImagePath() != "" {
			paths[p.ProfileImagePath()] = struct{}{}
		}
	case !domain.IsNotFound(err):
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	return paths, nil
}
