package application

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	profileDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/profile"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/filestore"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/media"
)

// profileImageBaseName names every stored profile picture.
const profileImageBaseName = "profile"

// SaveProfileRequest replaces every text field of the profile.
type SaveProfileRequest struct {
	PetName   string   `json:"pet_name"`
	PetBreed  string   `json:"pet_breed"`
	PetAge    string   `json:"pet_age"`
	OwnerName string   `json:"owner_name"`
	Interests []string `json:"interests"`
}

// PatchProfileRequest carries the fields to change; nil fields are left
// alone.
type PatchProfileRequest struct {
	PetName   *string `json:"pet_name"`
	PetBreed  *string `json:"pet_breed"`
	PetAge    *string `json:"pet_age"`
	OwnerName *string `json:"owner_name"`
}

// ProfileDTO is the API response representation of the profile.
type ProfileDTO struct {
	PetName          string    `json:"pet_name"`
	PetBreed         string    `json:"pet_breed"`
	PetAge           string    `json:"pet_age"`
	OwnerName        string    `json:"owner_name"`
	Interests        []string  `json:"interests"`
	ProfileImagePath string    `json:"profile_image_path,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

// ProfileService implements use cases for the single pet profile.
type ProfileService struct {
	repo      profileDomain.ProfileRepository
	files     MediaStore
	processor *media.Processor
	logger    *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo profileDomain.ProfileRepository, files MediaStore, processor *media.Processor, logger *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, files: files, processor: processor, logger: logger}
}

// GetProfile returns the profile, or NotFound when none was saved yet.
func (s *ProfileService) GetProfile(ctx context.Context) (*ProfileDTO, error) {
	p, err := s.repo.Find(ctx)
	if err != nil {
		return nil, err
	}
	return toProfileDTO(p), nil
}

// WatchProfile streams the profile (nil while absent) until ctx is
// cancelled.
func (s *ProfileService) WatchProfile(ctx context.Context) (<-chan *ProfileDTO, error) {
	ch, err := s.repo.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch profile: %w", err)
	}
	return mapStream(ctx, ch, toProfileDTO), nil
}

// SaveProfile writes every text field at once. The stored image is kept.
func (s *ProfileService) SaveProfile(ctx context.Context, req SaveProfileRequest) (*ProfileDTO, error) {
	if err := profileDomain.ValidateInterests(req.Interests); err != nil {
		return nil, err
	}

	imagePath := ""
	current, err := s.repo.Find(ctx)
	switch {
	case err == nil:
		imagePath = current.ProfileImagePath()
	case !domain.IsNotFound(err):
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	p := profileDomain.NewProfile(
		req.PetName, req.PetBreed, req.PetAge, req.OwnerName,
		profileDomain.JoinInterests(req.Interests),
		imagePath,
	)
	if err := s.repo.Upsert(ctx, p); err != nil {
		s.logger.Error("failed to save profile", zap.Error(err))
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("profile saved", zap.String("pet_name", p.PetName()))
	return s.GetProfile(ctx)
}

func (s *ProfileService) UpdatePetName(ctx context.Context, name string) (*ProfileDTO, error) {
	return s.updateField(ctx, profileDomain.FieldPetName, strings.TrimSpace(name))
}

func (s *ProfileService) UpdatePetBreed(ctx context.Context, breed string) (*ProfileDTO, error) {
	return s.updateField(ctx, profileDomain.FieldPetBreed, strings.TrimSpace(breed))
}

func (s *ProfileService) UpdatePetAge(ctx context.Context, age string) (*ProfileDTO, error) {
	return s.updateField(ctx, profileDomain.FieldPetAge, strings.TrimSpace(age))
}

func (s *ProfileService) UpdateOwnerName(ctx context.Context, name string) (*ProfileDTO, error) {
	return s.updateField(ctx, profileDomain.FieldOwnerName, strings.TrimSpace(name))
}

// PatchProfile updates the non-nil fields of req in one write.
func (s *ProfileService) PatchProfile(ctx context.Context, req PatchProfileRequest) (*ProfileDTO, error) {
	fields := make(map[string]string)
	set := func(name string, v *string) {
		if v != nil {
			fields[name] = strings.TrimSpace(*v)
		}
	}
	set(profileDomain.FieldPetName, req.PetName)
	set(profileDomain.FieldPetBreed, req.PetBreed)
	set(profileDomain.FieldPetAge, req.PetAge)
	set(profileDomain.FieldOwnerName, req.OwnerName)

	if len(fields) == 0 {
		return nil, domain.NewValidationError("no profile fields to update")
	}
	return s.updateFields(ctx, fields)
}

// UpdateInterests replaces the interest list. Entries are trimmed, blanks
// dropped and duplicates removed. An entry containing a comma is rejected.
func (s *ProfileService) UpdateInterests(ctx context.Context, interests []string) (*ProfileDTO, error) {
	if err := profileDomain.ValidateInterests(interests); err != nil {
		return nil, err
	}
	return s.updateField(ctx, profileDomain.FieldInterests, profileDomain.JoinInterests(interests))
}

// AddInterest appends one interest unless it is already listed.
func (s *ProfileService) AddInterest(ctx context.Context, interest string) (*ProfileDTO, error) {
	interest = strings.TrimSpace(interest)
	if interest == "" {
		return nil, domain.NewValidationError("interest must not be empty")
	}
	current, err := s.currentInterests(ctx)
	if err != nil {
		return nil, err
	}
	return s.UpdateInterests(ctx, append(current, interest))
}

// RemoveInterest drops every occurrence of interest.
func (s *ProfileService) RemoveInterest(ctx context.Context, interest string) (*ProfileDTO, error) {
	interest = strings.TrimSpace(interest)
	current, err := s.currentInterests(ctx)
	if err != nil {
		return nil, err
	}
	return s.UpdateInterests(ctx, slices.DeleteFunc(current, func(i string) bool { return i == interest }))
}

func (s *ProfileService) currentInterests(ctx context.Context) ([]string, error) {
	p, err := s.repo.Find(ctx)
	if domain.IsNotFound(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p.InterestList(), nil
}

// UpdateProfileImage decodes the source, caps it at the configured size,
// stores it as JPEG and points the profile at it. The previous image is
// deleted only after the new path is saved; if that write fails the new
// file is removed and the old one stays in place.
func (s *ProfileService) UpdateProfileImage(ctx context.Context, src filestore.Source) (*ProfileDTO, error) {
	oldPath := ""
	current, err := s.repo.Find(ctx)
	switch {
	case err == nil:
		oldPath = current.ProfileImagePath()
	case !domain.IsNotFound(err):
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, domain.NewIOError("could not open source for reading", err)
	}
	encoded, err := s.processor.Process(rc)
	rc.Close()
	if err != nil {
		s.logger.Warn("failed to process profile image", zap.Error(err))
		return nil, fmt.Errorf("failed to process profile image: %w", err)
	}

	saved, err := s.files.Write(ctx, filestore.KindProfileImage, profileImageBaseName, "jpg", bytes.NewReader(encoded))
	if err != nil {
		s.logger.Error("failed to store profile image", zap.Error(err))
		return nil, fmt.Errorf("failed to store profile image: %w", err)
	}

	if err := s.repo.UpdateFields(ctx, map[string]string{profileDomain.FieldProfileImagePath: saved.Path}); err != nil {
		discardFile(s.files, s.logger, saved.Path)
		s.logger.Error("failed to save profile image path", zap.Error(err))
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}

	if oldPath != "" && oldPath != saved.Path {
		discardFile(s.files, s.logger, oldPath)
	}

	s.logger.Info("profile image updated",
		zap.String("path", saved.Path),
		zap.Int("bytes", len(encoded)),
	)
	return s.GetProfile(ctx)
}

// UpdateProfileImagePath points the profile at an already stored image
// without touching any file.
func (s *ProfileService) UpdateProfileImagePath(ctx context.Context, path string) (*ProfileDTO, error) {
	return s.updateField(ctx, profileDomain.FieldProfileImagePath, strings.TrimSpace(path))
}

// ProfileImage returns the stored image path, or NotFound when there is no
// profile image on disk.
func (s *ProfileService) ProfileImage(ctx context.Context) (string, error) {
	p, err := s.repo.Find(ctx)
	if err != nil {
		return "", err
	}
	if p.ProfileImagePath() == "" {
		return "", domain.NewNotFoundError("Profile image", "1")
	}
	return existingFile(s.files, "Profile image", p.ProfileImagePath())
}

func (s *ProfileService) HasProfileData(ctx context.Context) (bool, error) {
	return s.repo.HasData(ctx)
}

// ClearProfile deletes the profile image file and then the profile row.
func (s *ProfileService) ClearProfile(ctx context.Context) error {
	p, err := s.repo.Find(ctx)
	if domain.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}

	if path := p.ProfileImagePath(); path != "" {
		if err := removeStoredFile(s.files, s.logger, path); err != nil {
			s.logger.Error("failed to delete profile image", zap.String("path", path), zap.Error(err))
			return fmt.Errorf("failed to delete profile image: %w", err)
		}
	}

	if err := s.repo.Clear(ctx); err != nil {
		s.logger.Error("failed to clear profile", zap.Error(err))
		return fmt.Errorf("failed to clear profile: %w", err)
	}

	s.logger.Info("profile cleared")
	return nil
}

func (s *ProfileService) updateField(ctx context.Context, name, value string) (*ProfileDTO, error) {
	return s.updateFields(ctx, map[string]string{name: value})
}

func (s *ProfileService) updateFields(ctx context.Context, fields map[string]string) (*ProfileDTO, error) {
	if err := s.repo.UpdateFields(ctx, fields); err != nil {
		s.logger.Error("failed to update profile", zap.Error(err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetProfile(ctx)
}

func toProfileDTO(p *profileDomain.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		PetName:          p.PetName(),
		PetBreed:         p.PetBreed(),
		PetAge:           p.PetAge(),
		OwnerName:        p.OwnerName(),
		Interests:        p.InterestList(),
		ProfileImagePath: p.ProfileImagePath(),
		LastUpdated:      p.LastUpdated(),
	}
}
