// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles. Applicants submit permits; admins review and decide them.
const (
	RoleApplicant = "applicant"
	RoleAdmin     = "admin"
)

// User is a registered account. Replaces the legacy shared admin
// password list: credentials live here as bcrypt hashes and sessions
// are JWTs with an expiry, owned by the client.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Phone        string    `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'applicant'" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// IsAdmin reports whether the account may review and decide permits.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
