package profile

import (
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

// SingletonID is the fixed identifier of the one and only profile row.
const SingletonID int64 = 1

// Profile is the aggregate root for the user's single pet profile.
type Profile struct {
	petName          string
	petBreed         string
	petAge           string
	ownerName        string
	interests        string
	profileImagePath string
	lastUpdated      time.Time
}

// NewProfile builds a profile from form input. Text fields are trimmed and
// interests are normalized.
func NewProfile(petName, petBreed, petAge, ownerName, interests, profileImagePath string) *Profile {
	return &Profile{
		petName:          strings.TrimSpace(petName),
		petBreed:         strings.TrimSpace(petBreed),
		petAge:           strings.TrimSpace(petAge),
		ownerName:        strings.TrimSpace(ownerName),
		interests:        JoinInterests(ParseInterests(interests)),
		profileImagePath: profileImagePath,
		lastUpdated:      time.Now().UTC(),
	}
}

// Reconstruct rebuilds a Profile from persistence data (no validation).
func Reconstruct(
	petName, petBreed, petAge, ownerName, interests, profileImagePath string,
	lastUpdated time.Time,
) *Profile {
	return &Profile{
		petName:          petName,
		petBreed:         petBreed,
		petAge:           petAge,
		ownerName:        ownerName,
		interests:        interests,
		profileImagePath: profileImagePath,
		lastUpdated:      lastUpdated,
	}
}

// --- Getters ---

func (p *Profile) ID() int64                { return SingletonID }
func (p *Profile) PetName() string          { return p.petName }
func (p *Profile) PetBreed() string         { return p.petBreed }
func (p *Profile) PetAge() string           { return p.petAge }
func (p *Profile) OwnerName() string        { return p.ownerName }
func (p *Profile) Interests() string        { return p.interests }
func (p *Profile) InterestList() []string   { return ParseInterests(p.interests) }
func (p *Profile) ProfileImagePath() string { return p.profileImagePath }
func (p *Profile) LastUpdated() time.Time   { return p.lastUpdated }

// --- Behavior ---

// HasData reports whether any of the text fields is filled in. The image
// path alone does not count.
func (p *Profile) HasData() bool {
	return p.petName != "" || p.petBreed != "" || p.petAge != "" ||
		p.ownerName != "" || p.interests != ""
}

// ValidateInterests rejects entries that would not survive the comma-joined
// storage format.
func ValidateInterests(interests []string) error {
	for _, interest := range interests {
		if strings.Contains(interest, ",") {
			return domain.NewValidationError("interests must not contain commas")
		}
	}
	return nil
}

// ParseInterests splits a comma-joined interests string, trimming entries
// and dropping empty ones.
func ParseInterests(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinInterests trims entries, drops empty ones and removes duplicates
// (first occurrence wins) before joining with commas.
func JoinInterests(interests []string) string {
	seen := make(map[string]struct{}, len(interests))
	out := make([]string, 0, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		out = append(out, interest)
	}
	return strings.Join(out, ",")
}
