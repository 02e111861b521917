package service_test

import (
	"errors"
	"testing"

	"cashpoints/internal/models"
	"cashpoints/internal/service"
)

func TestSettlePaysAndNotifies(t *testing.T) {
	payouts := &fakePayouts{}
	notifier := &fakeNotifier{}
	rewards := service.NewRewardService(payouts, &fakeAudit{}, notifier, 2)

	err := rewards.Settle(&models.Referral{ID: 7, ReferrerID: 1, ReferredID: 2})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if payouts.count() != 1 || notifier.rewards != 1 {
		t.Errorf("expected 1 payout and 1 notification, got %d/%d", payouts.count(), notifier.rewards)
	}
}

func TestSettleLostAckNotPaidTwice(t *testing.T) {
	// The payout reports an error but the earnings row exists: the commit
	// landed and only the ack was lost. Settle must not pay again.
	payouts := &fakePayouts{err: errors.New("connection reset")}
	notifier := &fakeNotifier{}
	rewards := service.NewRewardService(payouts, &fakeAudit{settled: 1}, notifier, 2)

	err := rewards.Settle(&models.Referral{ID: 7, ReferrerID: 1, ReferredID: 2})
	if err != nil {
		t.Fatalf("lost ack should settle clean, got %v", err)
	}
	if payouts.count() != 0 {
		t.Errorf("no retry may run once the earnings row is confirmed, got %d payouts", payouts.count())
	}
}

func TestSettleGenuineFailureSurfaces(t *testing.T) {
	payouts := &fakePayouts{err: errors.New("deadlock")}
	notifier := &fakeNotifier{}
	rewards := service.NewRewardService(payouts, &fakeAudit{}, notifier, 2)

	if err := rewards.Settle(&models.Referral{ID: 7, ReferrerID: 1}); err == nil {
		t.Fatal("expected an error when both attempts fail and nothing settled")
	}
	if notifier.rewards != 0 {
		t.Errorf("no notification on a failed settlement, got %d", notifier.rewards)
	}
}
