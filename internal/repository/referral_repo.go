package repository

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cashpoints/internal/domain"
	"cashpoints/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrCodeNotFound means the referral code does not resolve to an active
	// owner. Callers treat it as "no attribution", not a failure.
	ErrCodeNotFound = errors.New("referral code not found")

	// ErrDuplicateReferral means the referred user already has an
	// attribution; the first one wins and later attempts are no-ops.
	ErrDuplicateReferral = errors.New("user already referred")

	ErrSelfReferral = errors.New("self referral not allowed")
)

type ReferralRepository struct {
	db         *gorm.DB
	codePrefix string
}

func NewReferralRepository(db *gorm.DB, codePrefix string) *ReferralRepository {
	return &ReferralRepository{db: db, codePrefix: codePrefix}
}

// newCode builds a candidate code from the owner's Telegram id plus a random
// salt, e.g. BT925584A3F2. The id suffix keeps codes recognizable in support
// conversations; uniqueness comes from the salt and the unique index, never
// from parsing the suffix back into an id.
func (r *ReferralRepository) newCode(userID int64) (string, error) {
	id := strconv.FormatInt(userID, 10)
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	salt := make([]byte, 2)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return r.codePrefix + id + strings.ToUpper(hex.EncodeToString(salt)), nil
}

// GetOrCreateCode returns the user's referral code, creating one on first use.
// Creation races (two events for the same new user, or a salt collision) are
// resolved by the unique indexes plus a bounded retry.
func (r *ReferralRepository) GetOrCreateCode(userID int64) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	if err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&rc).Error; err == nil {
		return &rc, nil
	}
	for i := 0; i < 10; i++ {
		code, err := r.newCode(userID)
		if err != nil {
			return nil, err
		}
		rc = models.ReferralCode{UserID: userID, Code: code, IsActive: true}
		err = r.db.Create(&rc).Error
		if err == nil {
			return &rc, nil
		}
		if err == gorm.ErrDuplicatedKey {
			// Either the code collided (retry with a new salt) or another
			// event created this user's code first (return theirs).
			if existing := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&rc).Error; existing == nil {
				return &rc, nil
			}
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("failed to generate a unique referral code after retries")
}

// ResolveCode maps a code to its owner's Telegram id. Exact match on active
// codes only. Unknown codes return ErrCodeNotFound and must not be guessed
// at by suffix.
func (r *ReferralRepository) ResolveCode(code string) (int64, error) {
	var rc models.ReferralCode
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&rc).Error
	if err == gorm.ErrRecordNotFound {
		return 0, ErrCodeNotFound
	}
	if err != nil {
		return 0, err
	}
	return rc.UserID, nil
}

// CreateReferral inserts a pending attribution. The unique index on
// referred_id enforces first-attribution-wins even when two start events for
// the same user race past the existence pre-check.
func (r *ReferralRepository) CreateReferral(referrerID, referredID int64, code string) (*models.Referral, error) {
	if referrerID == referredID {
		return nil, ErrSelfReferral
	}
	var existing models.Referral
	if err := r.db.Where("referred_id = ?", referredID).First(&existing).Error; err == nil {
		return nil, ErrDuplicateReferral
	}
	ref := &models.Referral{
		ReferrerID:   referrerID,
		ReferredID:   referredID,
		ReferralCode: code,
		Status:       domain.ReferralStatusPending,
	}
	if err := r.db.Create(ref).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, ErrDuplicateReferral
		}
		return nil, err
	}
	return ref, nil
}

func (r *ReferralRepository) GetByReferredID(referredID int64) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Where("referred_id = ?", referredID).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *ReferralRepository) ListByReferrerID(referrerID int64, limit, offset int) ([]models.Referral, error) {
	var list []models.Referral
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// ClaimReward is the single authorized verified-transition: one conditional
// UPDATE flips status, the join-verified flag and reward_given, guarded by
// reward_given = false. Under concurrent invocation exactly one caller gets
// claimed = true; everyone else sees the reward already taken. This is the
// linearization point for the whole payout path.
func (r *ReferralRepository) ClaimReward(referralID uint) (claimed bool, err error) {
	now := time.Now()
	res := r.db.Model(&models.Referral{}).
		Where("id = ? AND reward_given = ?", referralID, false).
		Updates(map[string]interface{}{
			"status":              domain.ReferralStatusVerified,
			"group_join_verified": true,
			"reward_given":        true,
			"reward_given_at":     now,
			"last_join_date":      now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementRejoin bumps the rejoin counter on an already-verified referral.
// It never touches reward_given.
func (r *ReferralRepository) IncrementRejoin(referralID uint) error {
	return r.db.Model(&models.Referral{}).
		Where("id = ?", referralID).
		UpdateColumns(map[string]interface{}{
			"rejoin_count":     gorm.Expr("rejoin_count + 1"),
			"last_rejoin_date": time.Now(),
		}).Error
}
