package service

import (
	"fmt"
	"log"

	"cashpoints/internal/models"
)

type payoutStore interface {
	PayReferralReward(referrerID int64, amount int64, referralID uint) error
}

type settlementAudit interface {
	CountByReference(referralID uint) (int64, error)
}

type rewardNotifier interface {
	NotifyRewardEarned(referrerID int64, amount int64, referralID uint)
}

// RewardService applies the payout for a referral whose reward claim just
// succeeded. The store call is transactional (balance increments + earnings
// row together); idempotency is guaranteed upstream by the claim, not
// re-checked here. On failure the earnings audit decides whether the first
// attempt actually committed before the retry runs.
type RewardService struct {
	payouts  payoutStore
	audit    settlementAudit
	notifier rewardNotifier
	reward   int64
}

func NewRewardService(payouts payoutStore, audit settlementAudit, notifier rewardNotifier, reward int64) *RewardService {
	return &RewardService{payouts: payouts, audit: audit, notifier: notifier, reward: reward}
}

func (s *RewardService) Settle(ref *models.Referral) error {
	err := s.payouts.PayReferralReward(ref.ReferrerID, s.reward, ref.ID)
	if err != nil && s.settled(ref.ID) {
		// The transaction committed but the ack was lost. Do not pay again.
		log.Printf("[reward] payout for referral %d reported %v but the earnings row exists, treating as settled", ref.ID, err)
		err = nil
	} else if err != nil {
		log.Printf("[reward] payout for referral %d failed, retrying: %v", ref.ID, err)
		err = s.payouts.PayReferralReward(ref.ReferrerID, s.reward, ref.ID)
	}
	if err != nil {
		return fmt.Errorf("pay referral reward %d: %w", ref.ID, err)
	}
	if s.notifier != nil {
		s.notifier.NotifyRewardEarned(ref.ReferrerID, s.reward, ref.ID)
	}
	return nil
}

func (s *RewardService) settled(referralID uint) bool {
	if s.audit == nil {
		return false
	}
	n, err := s.audit.CountByReference(referralID)
	return err == nil && n > 0
}
