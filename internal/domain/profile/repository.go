package profile

import "context"

// Field names accepted by ProfileRepository.UpdateFields.
const (
	FieldPetName          = "pet_name"
	FieldPetBreed         = "pet_breed"
	FieldPetAge           = "pet_age"
	FieldOwnerName        = "owner_name"
	FieldInterests        = "interests"
	FieldProfileImagePath = "profile_image_path"
)

// ProfileRepository defines persistence operations for the singleton profile.
type ProfileRepository interface {
	// Find returns the profile or a NotFound error when none was saved yet.
	Find(ctx context.Context) (*Profile, error)
	// Upsert inserts or replaces the whole profile row.
	Upsert(ctx context.Context, profile *Profile) error
	// UpdateFields sets the given columns and bumps last_updated, creating an
	// empty profile first when none exists.
	UpdateFields(ctx context.Context, fields map[string]string) error
	Clear(ctx context.Context) error
	HasData(ctx context.Context) (bool, error)
	// Watch emits the current profile (nil when absent) and again after every
	// committed mutation.
	Watch(ctx context.Context) (<-chan *Profile, error)
}
