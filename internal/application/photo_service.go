package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	photoDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/photo"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
)

// AddPhotoRequest holds the metadata for a photo being imported.
type AddPhotoRequest struct {
	Description   string `json:"description" form:"description"`
	IsFavorite    bool   `json:"is_favorite" form:"is_favorite"`
	IsWithFriends bool   `json:"is_with_friends" form:"is_with_friends"`
}

// UpdatePhotoRequest replaces the user-editable fields of a photo.
type UpdatePhotoRequest struct {
	Description   string `json:"description"`
	IsFavorite    bool   `json:"is_favorite"`
	IsWithFriends bool   `json:"is_with_friends"`
}

// PhotoDTO is the API response representation of a photo.
type PhotoDTO struct {
	ID            int64     `json:"id"`
	Description   string    `json:"description"`
	InternalPath  string    `json:"internal_path"`
	IsFavorite    bool      `json:"is_favorite"`
	IsWithFriends bool      `json:"is_with_friends"`
	DateAdded     time.Time `json:"date_added"`
}

// PhotoService handles photo use cases.
type PhotoService struct {
	repo   photoDomain.PhotoRepository
	files  MediaStore
	logger *zap.Logger
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(repo photoDomain.PhotoRepository, files MediaStore, logger *zap.Logger) *PhotoService {
	return &PhotoService{repo: repo, files: files, logger: logger}
}

// AddPhoto copies the source into the photo directory and records it. No
// row is written if the copy fails, and the copy is removed again if the row
// cannot be written.
func (s *PhotoService) AddPhoto(ctx context.Context, src filestore.Source, req AddPhotoRequest) (*PhotoDTO, error) {
	saved, err := s.files.Save(ctx, src, filestore.KindPhoto, req.Description)
	if err != nil {
		s.logger.Error("failed to copy photo", zap.Error(err))
		return nil, fmt.Errorf("failed to copy photo: %w", err)
	}

	photo, err := photoDomain.NewPhoto(req.Description, saved.Path, req.IsFavorite, req.IsWithFriends)
	if err != nil {
		discardFile(s.files, s.logger, saved.Path)
		return nil, err
	}

	if err := s.repo.Save(ctx, photo); err != nil {
		discardFile(s.files, s.logger, saved.Path)
		s.logger.Error("failed to save photo", zap.Error(err))
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	s.logger.Info("photo added",
		zap.Int64("photo_id", photo.ID()),
		zap.String("path", saved.Path),
		zap.Int64("size", saved.Size),
	)
	return toPhotoDTO(photo), nil
}

// GetPhoto returns a single photo by ID.
func (s *PhotoService) GetPhoto(ctx context.Context, id int64) (*PhotoDTO, error) {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPhotoDTO(photo), nil
}

// ListPhotos returns every photo, newest first.
func (s *PhotoService) ListPhotos(ctx context.Context) ([]PhotoDTO, error) {
	photos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return toPhotoDTOs(photos), nil
}

// WatchPhotos streams the photo list until ctx is cancelled.
func (s *PhotoService) WatchPhotos(ctx context.Context) (<-chan []PhotoDTO, error) {
	ch, err := s.repo.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch photos: %w", err)
	}
	return mapStream(ctx, ch, toPhotoDTOs), nil
}

// UpdatePhotoDetails replaces the description and flags of a photo.
func (s *PhotoService) UpdatePhotoDetails(ctx context.Context, id int64, req UpdatePhotoRequest) (*PhotoDTO, error) {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photo.UpdateDetails(req.Description, req.IsFavorite, req.IsWithFriends)
	if err := s.repo.UpdateDetails(ctx, id, photo.Description(), photo.IsFavorite(), photo.IsWithFriends()); err != nil {
		s.logger.Error("failed to update photo", zap.Int64("photo_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}

	s.logger.Info("photo updated", zap.Int64("photo_id", id))
	return toPhotoDTO(photo), nil
}

// SetPhotoFavorite sets the favorite flag of a photo.
func (s *PhotoService) SetPhotoFavorite(ctx context.Context, id int64, isFavorite bool) (*PhotoDTO, error) {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photo.SetFavorite(isFavorite)
	if err := s.repo.UpdateFavorite(ctx, id, isFavorite); err != nil {
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return toPhotoDTO(photo), nil
}

// DeletePhoto removes the photo file and then its record. A file that is
// already gone does not block the delete; any other file error does, and
// the record is kept. Deleting an unknown ID succeeds.
func (s *PhotoService) DeletePhoto(ctx context.Context, id int64) error {
	photo, err := s.repo.FindByID(ctx, id)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	if err := removeStoredFile(s.files, s.logger, photo.InternalPath()); err != nil {
		s.logger.Error("failed to delete photo file",
			zap.Int64("photo_id", id),
			zap.String("path", photo.InternalPath()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete photo file: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete photo", zap.Int64("photo_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	s.logger.Info("photo deleted", zap.Int64("photo_id", id))
	return nil
}

// CountPhotos returns the number of photos.
func (s *PhotoService) CountPhotos(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// PhotoFile returns the path of the photo's file, or NotFound when the
// record or its file is missing.
func (s *PhotoService) PhotoFile(ctx context.Context, id int64) (string, error) {
	photo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return existingFile(s.files, "Photo file", photo.InternalPath())
}

func existingFile(files MediaStore, label, path string) (string, error) {
	if !files.Owns(path) {
		return "", domain.NewNotFoundError(label, path)
	}
	ok, err := files.Exists(path)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.NewNotFoundError(label, path)
	}
	return path, nil
}

func toPhotoDTO(p *photoDomain.Photo) *PhotoDTO {
	return &PhotoDTO{
		ID:            p.ID(),
		Description:   p.Description(),
		InternalPath:  p.InternalPath(),
		IsFavorite:    p.IsFavorite(),
		IsWithFriends: p.IsWithFriends(),
		DateAdded:     p.DateAdded(),
	}
}

func toPhotoDTOs(photos []*photoDomain.Photo) []PhotoDTO {
	dtos := make([]PhotoDTO, len(photos))
	for i, p := range photos {
		dtos[i] = *toPhotoDTO(p)
	}
	return dtos
}
