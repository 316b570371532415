package models

import (
	"bytes"
	"encoding/json"
	"time"
	"unicode"
)

// UserRole is the account type reported by the backend
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleProfessor UserRole = "professor"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAdmin:
		return true
	}
	return false
}

// User mirrors the backend user record
type User struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           UserRole        `json:"role"`
	Bio            string          `json:"bio,omitempty"`
	Major          string          `json:"major,omitempty"`
	Department     string          `json:"department,omitempty"`
	ProfilePicture string          `json:"profilePicture,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Followers      []UserRef       `json:"followers"`
	Following      []UserRef       `json:"following"`
	IsVerified     bool            `json:"isVerified"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Initial is the upper-cased first letter of the name, used for avatars
// without a picture.
func (u User) Initial() string {
	for _, r := range u.Name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// FollowedBy reports whether userID appears in the followers list
func (u User) FollowedBy(userID string) bool {
	for _, f := range u.Followers {
		if f.ID == userID {
			return true
		}
	}
	return false
}

// UserRef is a user reference the backend sends either as a bare id or as an
// embedded (possibly partial) user object.
type UserRef struct {
	ID   string
	User *User
}

// UnmarshalJSON accepts "id" or {"_id": ...}.
func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	r.ID = u.ID
	r.User = &u
	return nil
}

// MarshalJSON writes the embedded user when known, else the id.
func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}

// Name returns the embedded user's name, if any
func (r UserRef) Name() string {
	if r.User == nil {
		return ""
	}
	return r.User.Name
}

// Skill is a skill-catalogue entry
type Skill struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Certification is a verified credential attached to a profile
type Certification struct {
	Platform        string `json:"platform"`
	CertificateName string `json:"certificate_name"`
	Issuer          string `json:"issuer"`
	CompletionDate  string `json:"completion_date,omitempty"`
	CredentialID    string `json:"credential_id"`
	CredentialURL   string `json:"credential_url,omitempty"`
	Verified        bool   `json:"verified"`
	Notes           string `json:"notes,omitempty"`
}
