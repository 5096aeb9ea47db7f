package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Household groups users and owns their shared financial records.
type Household struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Members []HouseholdMember `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`
}

func (h *Household) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// HouseholdMember links a user to its household. A user has at most one.
type HouseholdMember struct {
	HouseholdID string    `gorm:"primaryKey;type:uuid" json:"householdId"`
	UserID      string    `gorm:"primaryKey;type:uuid;uniqueIndex" json:"userId"`
	Role        string    `gorm:"not null" json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}
