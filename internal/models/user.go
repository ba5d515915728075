package models

import "time"

// Role identifies which side of a mentorship a user is on. Fixed at signup.
type Role string

const (
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

// Valid reports whether the role is one of the two known values
func (r Role) Valid() bool {
	return r == RoleMentor || r == RoleMentee
}

// Profile holds the user-editable part of an account. Skills only apply to
// mentors; the field stays nil for mentees.
type Profile struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	ImageURL string   `json:"imageUrl"`
	Skills   []string `json:"skills,omitempty"`
}

// User represents an account. Email and Role are immutable after creation.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProfileUpdate carries a partial profile update. Nil fields are left
// untouched. Role and email cannot be changed through this path.
type ProfileUpdate struct {
	Name     *string   `json:"name"`
	Bio      *string   `json:"bio"`
	Skills   *[]string `json:"skills"`
	ImageURL *string   `json:"-"`
}

// SignupRequest is the payload for POST /signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Role     Role   `json:"role" binding:"required,oneof=mentor mentee"`
}

// LoginRequest is the form-encoded payload for POST /login. The field names
// follow the OAuth2 password-grant convention the frontend uses.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// UpdateProfileRequest is the payload for PUT /profile
type UpdateProfileRequest struct {
	Name   *string   `json:"name" binding:"omitempty,max=100"`
	Bio    *string   `json:"bio" binding:"omitempty,max=2000"`
	Skills *[]string `json:"skills" binding:"omitempty,max=30,dive,max=50"`
}

// UploadProfilePictureRequest is the payload for POST /profile/picture
type UploadProfilePictureRequest struct {
	Image       string `json:"image" binding:"required"`
	FileName    string `json:"fileName" binding:"required,max=200"`
	ContentType string `json:"contentType" binding:"required"`
}

// MentorSort is the ordering applied to the mentor directory listing
type MentorSort string

const (
	MentorSortDefault MentorSort = ""      // by id, stable
	MentorSortName    MentorSort = "name"  // by profile name
	MentorSortSkill   MentorSort = "skill" // by skill-match rank, then name
)

// MentorFilter narrows and orders the mentor directory listing
type MentorFilter struct {
	Skill string
	Sort  MentorSort
}
