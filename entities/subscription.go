package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionTrial   SubscriptionStatus = "TRIAL"
	SubscriptionActive  SubscriptionStatus = "ACTIVE"
	SubscriptionExpired SubscriptionStatus = "EXPIRED"
)

// TrialPeriod is the length of the trial granted on first status query.
const TrialPeriod = 30 * 24 * time.Hour

// Subscription is one-to-one with User.
type Subscription struct {
	ID          string             `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string             `gorm:"uniqueIndex;type:uuid;not null" json:"userId"`
	Status      SubscriptionStatus `gorm:"not null" json:"status"`
	TrialEndsAt *time.Time         `json:"trialEndsAt"`
	EndDate     time.Time          `json:"endDate"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// NewTrial builds the default subscription for userID starting at now.
func NewTrial(userID string, now time.Time) *Subscription {
	ends := now.Add(TrialPeriod)
	return &Subscription{
		UserID:      userID,
		Status:      SubscriptionTrial,
		TrialEndsAt: &ends,
		EndDate:     ends,
	}
}

// Overdue reports whether an ACTIVE subscription has passed its end date.
// TRIAL subscriptions are never reported overdue here.
func (s *Subscription) Overdue(now time.Time) bool {
	return s.Status == SubscriptionActive && s.EndDate.Before(now)
}
