package models

import (
	"encoding/json"
	"time"
)

// Role is a user's fixed role, chosen at signup and never changed.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

// User represents an account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	// JSON string field for DB storage
	SkillsJSON string `json:"-"`
	// Slice field for API interaction; meaningful only for mentors
	Skills []string `json:"skills,omitempty"`

	HasImage  bool   `json:"-"`
	ImageMime string `json:"-"`
}

// PrepareForSave marshals the skills slice into its JSON string for DB storage.
func (u *User) PrepareForSave() {
	skillsBytes, _ := json.Marshal(u.Skills)
	u.SkillsJSON = string(skillsBytes)
}

// PrepareForAPI unmarshals the skills JSON string into the slice field.
func (u *User) PrepareForAPI() {
	if u.SkillsJSON != "" {
		json.Unmarshal([]byte(u.SkillsJSON), &u.Skills)
	}
}

// Profile is the outward-facing profile block nested inside user views.
type Profile struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	ImageURL string   `json:"imageUrl"`
	Skills   []string `json:"skills,omitempty"`
}

// UserView is the wire shape for a user, matching the public API contract.
type UserView struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Role    Role    `json:"role"`
	Profile Profile `json:"profile"`
}

const (
	defaultMentorImageURL = "https://placehold.co/500x500.jpg?text=MENTOR"
	defaultMenteeImageURL = "https://placehold.co/500x500.jpg?text=MENTEE"
)

// DefaultImageURL returns the placeholder profile image for a role.
func DefaultImageURL(role Role) string {
	if role == RoleMentor {
		return defaultMentorImageURL
	}
	return defaultMenteeImageURL
}

// ImageURL derives the profile image URL. Users with a stored image are
// served from the image endpoint; everyone else gets the role placeholder.
func (u *User) ImageURL() string {
	if u.HasImage {
		return "/api/images/" + string(u.Role) + "/" + u.ID
	}
	return DefaultImageURL(u.Role)
}

// View builds the outward representation of the user. Skills are included
// only for mentors, regardless of what is stored.
func (u *User) View() UserView {
	var skills []string
	if u.Role == RoleMentor {
		skills = u.Skills
	}
	return UserView{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		Profile: Profile{
			Name:     u.Name,
			Bio:      u.Bio,
			ImageURL: u.ImageURL(),
			Skills:   skills,
		},
	}
}
