package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. PasswordHash is nil for accounts created through
// an external identity provider.
type User struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	Name          string     `json:"name"`
	PasswordHash  *string    `json:"-"`
	PhoneNumber   *string    `json:"phoneNumber"`
	EmailVerified *time.Time `json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// HasPassword reports whether the account signs in with a local password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
