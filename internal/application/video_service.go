package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	videoDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/video"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
)

// AddVideoRequest holds the metadata for a video being imported.
type AddVideoRequest struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description"`
}

// UpdateVideoRequest carries the fields to change; nil fields are left alone.
type UpdateVideoRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsFavorite  *bool   `json:"is_favorite"`
}

// VideoDTO is the API response representation of a video.
type VideoDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	InternalPath string    `json:"internal_path"`
	Duration     string    `json:"duration"`
	FileSize     int64     `json:"file_size"`
	DateAdded    time.Time `json:"date_added"`
	Description  string    `json:"description"`
	IsFavorite   bool      `json:"is_favorite"`
}

// DurationProber reads a video's length as "mm:ss". On failure it returns
// the placeholder label along with the error.
type DurationProber func(path string) (string, error)

// VideoService handles video use cases.
type VideoService struct {
	repo   videoDomain.VideoRepository
	files  MediaStore
	probe  DurationProber
	logger *zap.Logger
}

// NewVideoService creates a new VideoService.
func NewVideoService(repo videoDomain.VideoRepository, files MediaStore, probe DurationProber, logger *zap.Logger) *VideoService {
	return &VideoService{repo: repo, files: files, probe: probe, logger: logger}
}

// AddVideo copies the source into the video directory, probes its duration
// and records it. A probe failure stores the placeholder duration.
func (s *VideoService) AddVideo(ctx context.Context, src filestore.Source, req AddVideoRequest) (*VideoDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.NewValidationError("video name is required")
	}

	saved, err := s.files.Save(ctx, src, filestore.KindVideo, req.Name)
	if err != nil {
		s.logger.Error("failed to copy video", zap.Error(err))
		return nil, fmt.Errorf("failed to copy video: %w", err)
	}

	duration, err := s.probe(saved.Path)
	if err != nil {
		s.logger.Warn("could not read video duration",
			zap.String("path", saved.Path),
			zap.Error(err),
		)
	}

	video, err := videoDomain.NewVideo(req.Name, saved.Path, duration, saved.Size, req.Description)
	if err != nil {
		discardFile(s.files, s.logger, saved.Path)
		return nil, err
	}

	if err := s.repo.Save(ctx, video); err != nil {
		discardFile(s.files, s.logger, saved.Path)
		s.logger.Error("failed to save video", zap.Error(err))
		return nil, fmt.Errorf("failed to save video: %w", err)
	}

	s.logger.Info("video added",
		zap.Int64("video_id", video.ID()),
		zap.String("path", saved.Path),
		zap.String("duration", video.Duration()),
		zap.Int64("size", saved.Size),
	)
	return toVideoDTO(video), nil
}

func (s *VideoService) GetVideo(ctx context.Context, id int64) (*VideoDTO, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toVideoDTO(video), nil
}

func (s *VideoService) ListVideos(ctx context.Context) ([]VideoDTO, error) {
	videos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return toVideoDTOs(videos), nil
}

func (s *VideoService) WatchVideos(ctx context.Context) (<-chan []VideoDTO, error) {
	ch, err := s.repo.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch videos: %w", err)
	}
	return mapStream(ctx, ch, toVideoDTOs), nil
}

// RenameVideo changes the display name of a video.
func (s *VideoService) RenameVideo(ctx context.Context, id int64, name string) (*VideoDTO, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := video.Rename(name); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateName(ctx, id, video.Name()); err != nil {
		return nil, fmt.Errorf("failed to rename video: %w", err)
	}

	s.logger.Info("video renamed", zap.Int64("video_id", id), zap.String("name", video.Name()))
	return toVideoDTO(video), nil
}

func (s *VideoService) UpdateVideoDescription(ctx context.Context, id int64, description string) (*VideoDTO, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	video.SetDescription(description)
	if err := s.repo.UpdateDescription(ctx, id, video.Description()); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	return toVideoDTO(video), nil
}

func (s *VideoService) SetVideoFavorite(ctx context.Context, id int64, isFavorite bool) (*VideoDTO, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	video.SetFavorite(isFavorite)
	if err := s.repo.UpdateFavorite(ctx, id, isFavorite); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	return toVideoDTO(video), nil
}

// UpdateVideo applies the non-nil fields of req in turn.
func (s *VideoService) UpdateVideo(ctx context.Context, id int64, req UpdateVideoRequest) (*VideoDTO, error) {
	var (
		dto *VideoDTO
		err error
	)
	if req.Name != nil {
		if dto, err = s.RenameVideo(ctx, id, *req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if dto, err = s.UpdateVideoDescription(ctx, id, *req.Description); err != nil {
			return nil, err
		}
	}
	if req.IsFavorite != nil {
		if dto, err = s.SetVideoFavorite(ctx, id, *req.IsFavorite); err != nil {
			return nil, err
		}
	}
	if dto == nil {
		return s.GetVideo(ctx, id)
	}
	return dto, nil
}

// DeleteVideo removes the video file and then its record, with the same
// rules as DeletePhoto.
func (s *VideoService) DeleteVideo(ctx context.Context, id int64) error {
	video, err := s.repo.FindByID(ctx, id)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	if err := removeStoredFile(s.files, s.logger, video.InternalPath()); err != nil {
		s.logger.Error("failed to delete video file",
			zap.Int64("video_id", id),
			zap.String("path", video.InternalPath()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete video file: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete video", zap.Int64("video_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete video: %w", err)
	}

	s.logger.Info("video deleted", zap.Int64("video_id", id))
	return nil
}

func (s *VideoService) CountVideos(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// VideoFile returns the path of the video's file, or NotFound when the
// record or its file is missing.
func (s *VideoService) VideoFile(ctx context.Context, id int64) (string, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return existingFile(s.files, "Video file", video.InternalPath())
}

func toVideoDTO(v *videoDomain.Video) *VideoDTO {
	return &VideoDTO{
		ID:           v.ID(),
		Name:         v.Name(),
		InternalPath: v.InternalPath(),
		Duration:     v.Duration(),
		FileSize:     v.FileSize(),
		DateAdded:    v.DateAdded(),
		Description:  v.Description(),
		IsFavorite:   v.IsFavorite(),
	}
}

func toVideoDTOs(videos []*videoDomain.Video) []VideoDTO {
	dtos := make([]VideoDTO, len(videos))
	for i, v := range videos {
		dtos[i] = *toVideoDTO(v)
	}
	return dtos
}
