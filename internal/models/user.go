package models

import (
	"time"
)

// Role distinguishes job seekers from recruiters. It is fixed at
// registration and compared against the role claimed at login.
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleRecruiter Role = "recruiter"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleRecruiter
}

// User represents a registered account. Email is the lookup key and is
// always stored normalized (trimmed, lower-cased).
type User struct {
	BaseModel
	FullName     string `json:"fullname"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	// Verification sub-state. While a code is outstanding both pending
	// fields are set; a successful verification clears them together.
	IsVerified                bool       `json:"isVerified"`
	VerificationCode          *string    `json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"-"`

	// Profile fields, passed through opaquely. Skills is stored as a
	// comma-separated list and split at the API boundary.
	Bio        string `json:"bio,omitempty"`
	Skills     string `json:"skills,omitempty"`
	ResumeURL  string `json:"resumeUrl,omitempty"`
	ResumeName string `json:"resumeName,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
}

// HasPendingCode reports whether an unconsumed verification code is stored.
func (u *User) HasPendingCode() bool {
	return u.VerificationCode != nil && *u.VerificationCode != ""
}
