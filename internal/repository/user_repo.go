package repository

import (
	"time"

	"cashpoints/internal/domain"
	"cashpoints/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	var u models.User
	err := r.db.Where("telegram_id = ?", telegramID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetOrCreate returns the user for a Telegram id, creating the row on first
// contact. Profile fields are refreshed on every call so the stored name
// tracks the Telegram account.
func (r *UserRepository) GetOrCreate(telegramID int64, username, firstName, lastName string) (*models.User, error) {
	now := time.Now()
	u, err := r.GetByTelegramID(telegramID)
	if err == nil {
		updates := map[string]interface{}{"last_activity": now}
		if username != "" && username != u.Username {
			updates["username"] = username
			u.Username = username
		}
		if err := r.db.Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
		u.LastActivity = &now
		return u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	u = &models.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LastActivity: &now,
	}
	if err := r.db.Create(u).Error; err != nil {
		// Lost a create race with a concurrent first contact.
		if err == gorm.ErrDuplicatedKey {
			return r.GetByTelegramID(telegramID)
		}
		return nil, err
	}
	return u, nil
}

// PayReferralReward settles a referral payout: the referrer's balance,
// total_earnings and total_referrals move in a single UPDATE with in-database
// arithmetic, and the earnings audit row is written in the same transaction.
// Either both happen or neither does; callers may retry the whole call.
func (r *UserRepository) PayReferralReward(referrerID int64, amount int64, referralID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("telegram_id = ?", referrerID).
			UpdateColumns(map[string]interface{}{
				"balance":         gorm.Expr("balance + ?", amount),
				"total_earnings":  gorm.Expr("total_earnings + ?", amount),
				"total_referrals": gorm.Expr("total_referrals + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.EarningsRecord{
			UserID:      referrerID,
			Amount:      amount,
			Source:      domain.EarningsSourceReferral,
			ReferenceID: referralID,
		}).Error
	})
}
