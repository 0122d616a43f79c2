package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionTier is the plan an account is on. Unknown values are
// treated as the free tier when resolving the scan allowance.
type SubscriptionTier string

const (
	TierFree      SubscriptionTier = "free"
	TierBasic     SubscriptionTier = "basic"
	TierPro       SubscriptionTier = "pro"
	TierUnlimited SubscriptionTier = "unlimited"
)

type User struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Auth0ID          string    `gorm:"unique;not null"`
	Email            string    `gorm:"unique;not null"`
	Name             string
	Nickname         string
	SubscriptionTier SubscriptionTier `gorm:"default:'free'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}
