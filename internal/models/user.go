package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a Telegram user known to the bot. Balance and the earnings totals
// only ever grow through the reward settlement path; nothing in this service
// debits them.
type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TelegramID int64  `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Username   string `gorm:"size:64" json:"username"`
	FirstName  string `gorm:"size:128" json:"first_name"`
	LastName   string `gorm:"size:128" json:"last_name"`

	Balance        int64 `gorm:"not null;default:0" json:"balance"`
	TotalEarnings  int64 `gorm:"not null;default:0" json:"total_earnings"`
	TotalReferrals int   `gorm:"not null;default:0" json:"total_referrals"`

	LastActivity *time.Time     `json:"last_activity"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "user"
}
