package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
	profileDomain "github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain/profile"
)

// ProfileModel is the GORM model for the single-row profile table.
type ProfileModel struct {
	ID               int64     `gorm:"primaryKey;autoIncrement:false"`
	PetName          string    `gorm:"type:text;not null"`
	PetBreed         string    `gorm:"type:text;not null"`
	PetAge           string    `gorm:"type:text;not null"`
	OwnerName        string    `gorm:"type:text;not null"`
	Interests        string    `gorm:"type:text;not null"`
	ProfileImagePath string    `gorm:"type:text;not null"`
	LastUpdated      time.Time `gorm:"not null"`
}

func (ProfileModel) TableName() string { return "profile" }

var profileFields = map[string]bool{
	profileDomain.FieldPetName:          true,
	profileDomain.FieldPetBreed:         true,
	profileDomain.FieldPetAge:           true,
	profileDomain.FieldOwnerName:        true,
	profileDomain.FieldInterests:        true,
	profileDomain.FieldProfileImagePath: true,
}

// GormProfileRepository implements ProfileRepository using GORM.
type GormProfileRepository struct {
	db   *gorm.DB
	now  func() time.Time
	live *liveQuery[*profileDomain.Profile]
}

func NewGormProfileRepository(db *gorm.DB, log *zap.Logger) *GormProfileRepository {
	r := &GormProfileRepository{db: db, now: time.Now}
	r.live = newLiveQuery("profile", r.findOrNil, log)
	return r
}

func (r *GormProfileRepository) Find(ctx context.Context) (*profileDomain.Profile, error) {
	var model ProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", profileDomain.SingletonID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Profile", "1")
		}
		return nil, domain.NewStorageError("find profile", err)
	}
	return toProfileDomain(&model), nil
}

func (r *GormProfileRepository) findOrNil(ctx context.Context) (*profileDomain.Profile, error) {
	p, err := r.Find(ctx)
	if domain.IsNotFound(err) {
		return nil, nil
	}
	return p, err
}

// Upsert inserts the profile or replaces every column of the existing row.
func (r *GormProfileRepository) Upsert(ctx context.Context, p *profileDomain.Profile) error {
	model := toProfileModel(p)
	model.LastUpdated = r.now().UTC()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&model).Error
	if err != nil {
		return domain.NewStorageError("save profile", err)
	}
	r.live.refresh(ctx)
	return nil
}

// UpdateFields sets the given columns and last_updated in one transaction,
// creating an empty row first if there is none.
func (r *GormProfileRepository) UpdateFields(ctx context.Context, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make(map[string]any, len(fields)+1)
	for name, value := range fields {
		if !profileFields[name] {
			return domain.NewValidationError(fmt.Sprintf("unknown profile field %q", name))
		}
		updates[name] = value
	}
	now := r.now().UTC()
	updates["last_updated"] = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		empty := ProfileModel{ID: profileDomain.SingletonID, LastUpdated: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&empty).Error; err != nil {
			return err
		}
		return tx.Model(&ProfileModel{}).Where("id = ?", profileDomain.SingletonID).Updates(updates).Error
	})
	if err != nil {
		return domain.NewStorageError("update profile", err)
	}
	r.live.refresh(ctx)
	return nil
}

// Clear deletes the profile row.
func (r *GormProfileRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Delete(&ProfileModel{}, profileDomain.SingletonID).Error; err != nil {
		return domain.NewStorageError("clear profile", err)
	}
	r.live.refresh(ctx)
	return nil
}

// HasData reports whether a profile with at least one text field exists.
func (r *GormProfileRepository) HasData(ctx context.Context) (bool, error) {
	p, err := r.findOrNil(ctx)
	if err != nil {
		return false, err
	}
	return p != nil && p.HasData(), nil
}

// Watch streams the profile (nil when absent) until ctx is cancelled.
func (r *GormProfileRepository) Watch(ctx context.Context) (<-chan *profileDomain.Profile, error) {
	return r.live.subscribe(ctx)
}

func (r *GormProfileRepository) Close() { r.live.close() }

func toProfileModel(p *profileDomain.Profile) ProfileModel {
	return ProfileModel{
		ID:               profileDomain.SingletonID,
		PetName:          p.PetName(),
		PetBreed:         p.PetBreed(),
		PetAge:           p.PetAge(),
		OwnerName:        p.OwnerName(),
		Interests:        p.Interests(),
		ProfileImagePath: p.ProfileImagePath(),
		LastUpdated:      p.LastUpdated().UTC(),
	}
}

func toProfileDomain(m *ProfileModel) *profileDomain.Profile {
	return profileDomain.Reconstruct(
		m.PetName,
		m.PetBreed,
		m.PetAge,
		m.OwnerName,
		m.Interests,
		m.ProfileImagePath,
		m.LastUpdated,
	)
}
