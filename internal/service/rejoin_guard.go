package service

import (
	"errors"
	"log"

	"cashpoints/internal/models"

	"gorm.io/gorm"
)

type rejoinLedger interface {
	GetByReferredID(referredID int64) (*models.Referral, error)
	IncrementRejoin(referralID uint) error
}

type rejoinNotifier interface {
	NotifyRejoinWarning(referrerID, referredID int64)
}

type RejoinInfo struct {
	IsRejoin       bool
	PriorJoinCount int
}

// RejoinGuard recognizes a referred user whose group join was already
// verified and records every further confirmed join on the same referral
// row. It only produces the advisory signal and the audit trail; the payout
// itself is blocked by the atomic reward claim, not by this component.
type RejoinGuard struct {
	ledger      rejoinLedger
	notifier    rejoinNotifier
	maxAttempts int
}

func NewRejoinGuard(ledger rejoinLedger, notifier rejoinNotifier, maxAttempts int) *RejoinGuard {
	return &RejoinGuard{ledger: ledger, notifier: notifier, maxAttempts: maxAttempts}
}

func (g *RejoinGuard) CheckAndRecord(referredID int64) (RejoinInfo, error) {
	ref, err := g.ledger.GetByReferredID(referredID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RejoinInfo{}, nil
	}
	if err != nil {
		return RejoinInfo{}, err
	}
	if !ref.GroupJoinVerified {
		return RejoinInfo{}, nil
	}

	if err := g.ledger.IncrementRejoin(ref.ID); err != nil {
		return RejoinInfo{}, err
	}
	count := ref.RejoinCount + 1
	log.Printf("[rejoin] user %d rejoined (count %d, referrer %d)", referredID, count, ref.ReferrerID)

	if count >= g.maxAttempts && g.notifier != nil {
		g.notifier.NotifyRejoinWarning(ref.ReferrerID, referredID)
	}
	return RejoinInfo{IsRejoin: true, PriorJoinCount: count}, nil
}
