package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralCode is a unique invite code belonging to a user.
// Each user has at most one active referral code.
type ReferralCode struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    int64          `gorm:"uniqueIndex;not null" json:"user_id"` // Telegram id of the owner
	Code      string         `gorm:"uniqueIndex;size:20;not null" json:"code"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

// Referral attributes a referred user to a referrer. The unique index on
// ReferredID is what makes attribution first-wins: a user can be referred
// once, ever. RewardGiven flips false→true exactly once, through
// ReferralRepository.ClaimReward; every later membership confirmation is
// recorded on the same row as a rejoin.
type Referral struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ReferrerID   int64  `gorm:"not null;index" json:"referrer_id"`
	ReferredID   int64  `gorm:"uniqueIndex;not null" json:"referred_id"`
	ReferralCode string `gorm:"size:20;index" json:"referral_code"`

	Status            string `gorm:"size:20;not null;index" json:"status"` // pending | verified
	GroupJoinVerified bool   `gorm:"not null;default:false" json:"group_join_verified"`
	RewardGiven       bool   `gorm:"not null;default:false" json:"reward_given"`
	RejoinCount       int    `gorm:"not null;default:0" json:"rejoin_count"`

	LastJoinDate   *time.Time `json:"last_join_date"`
	LastRejoinDate *time.Time `json:"last_rejoin_date"`
	RewardGivenAt  *time.Time `json:"reward_given_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Referral) TableName() string { return "referrals" }
