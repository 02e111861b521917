package models

import (
	"time"
)

// EarningsRecord is the append-only audit trail of reward payouts.
// Exactly one row is written per settled referral.
type EarningsRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"` // Telegram id of the referrer
	Amount      int64     `gorm:"not null" json:"amount"`
	Source      string    `gorm:"size:30;not null;index" json:"source"` // "referral"
	ReferenceID uint      `gorm:"not null;index" json:"reference_id"`   // Referral.ID
	CreatedAt   time.Time `json:"created_at"`
}

func (EarningsRecord) TableName() string { return "earnings_records" }
