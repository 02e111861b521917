package service

import (
	"context"
	"errors"
	"log"

	"cashpoints/internal/models"
	"cashpoints/internal/repository"

	"gorm.io/gorm"
)

type OutcomeKind string

const (
	// OutcomeJoinRequired: the user is not (verifiably) a group member yet.
	OutcomeJoinRequired OutcomeKind = "join_required"
	// OutcomeWelcome: membership confirmed, mini app unlocked.
	OutcomeWelcome OutcomeKind = "welcome"
	// OutcomeRejoinSeen: membership confirmed again for an already-rewarded
	// referral; no new payout.
	OutcomeRejoinSeen OutcomeKind = "rejoin_seen"
)

// Outcome is the only thing the transport layer needs to render a reply.
type Outcome struct {
	Kind             OutcomeKind
	ReferrerRewarded bool
	RejoinCount      int
}

// StartProfile carries the identity fields a start event provides.
type StartProfile struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

type userStore interface {
	GetOrCreate(telegramID int64, username, firstName, lastName string) (*models.User, error)
}

type referralLedger interface {
	ResolveCode(code string) (int64, error)
	CreateReferral(referrerID, referredID int64, code string) (*models.Referral, error)
	GetByReferredID(referredID int64) (*models.Referral, error)
	ClaimReward(referralID uint) (bool, error)
}

type rewardSettler interface {
	Settle(ref *models.Referral) error
}

type rejoinRecorder interface {
	CheckAndRecord(referredID int64) (RejoinInfo, error)
}

// AttributionService orchestrates the start flow: attribute the referral
// parameter, gate on group membership, and settle the reward exactly once.
//
// Referral bookkeeping is strictly best-effort: any storage failure is logged
// and the user still gets the plain membership-gated flow. The gate itself
// never depends on the referral tables.
type AttributionService struct {
	users   userStore
	ledger  referralLedger
	oracle  MembershipChecker
	rewards rewardSettler
	rejoins rejoinRecorder
}

func NewAttributionService(users userStore, ledger referralLedger, oracle MembershipChecker, rewards rewardSettler, rejoins rejoinRecorder) *AttributionService {
	return &AttributionService{
		users:   users,
		ledger:  ledger,
		oracle:  oracle,
		rewards: rewards,
		rejoins: rejoins,
	}
}

// OnStart handles a bot start event, with or without a referral parameter.
func (s *AttributionService) OnStart(ctx context.Context, p StartProfile, referralParam string) Outcome {
	s.touchUser(p)
	if referralParam != "" {
		s.attribute(referralParam, p.TelegramID)
	}
	return s.gate(ctx, p.TelegramID)
}

// OnMembershipRecheck handles a user-initiated "I've joined" signal.
func (s *AttributionService) OnMembershipRecheck(ctx context.Context, p StartProfile) Outcome {
	s.touchUser(p)
	return s.gate(ctx, p.TelegramID)
}

func (s *AttributionService) touchUser(p StartProfile) {
	if _, err := s.users.GetOrCreate(p.TelegramID, p.Username, p.FirstName, p.LastName); err != nil {
		log.Printf("[attribution] user upsert failed for %d, continuing degraded: %v", p.TelegramID, err)
	}
}

// attribute records a pending referral for the given code. Self-referrals,
// duplicates and unknown codes are expected no-ops.
func (s *AttributionService) attribute(code string, referredID int64) {
	referrerID, err := s.ledger.ResolveCode(code)
	if errors.Is(err, repository.ErrCodeNotFound) {
		log.Printf("[attribution] code %q does not resolve, no attribution for user %d", code, referredID)
		return
	}
	if err != nil {
		log.Printf("[attribution] code lookup failed for user %d, skipping attribution: %v", referredID, err)
		return
	}

	_, err = s.ledger.CreateReferral(referrerID, referredID, code)
	switch {
	case err == nil:
		log.Printf("[attribution] pending referral created: %d -> %d (%s)", referrerID, referredID, code)
	case errors.Is(err, repository.ErrSelfReferral):
		log.Printf("[attribution] user %d tried their own code %q", referredID, code)
	case errors.Is(err, repository.ErrDuplicateReferral):
		// First attribution wins; nothing to do.
	default:
		log.Printf("[attribution] referral create failed for user %d, skipping attribution: %v", referredID, err)
	}
}

// gate checks membership and, for members with a referral on file, runs the
// verify-and-claim-and-settle path.
func (s *AttributionService) gate(ctx context.Context, userID int64) Outcome {
	member, err := s.oracle.IsMember(ctx, userID)
	if err != nil {
		log.Printf("[attribution] membership check failed for %d, treating as non-member: %v", userID, err)
		member = false
	}
	if !member {
		return Outcome{Kind: OutcomeJoinRequired}
	}

	ref, err := s.ledger.GetByReferredID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Outcome{Kind: OutcomeWelcome}
	}
	if err != nil {
		log.Printf("[attribution] referral lookup failed for %d, access granted without settlement: %v", userID, err)
		return Outcome{Kind: OutcomeWelcome}
	}

	claimed, err := s.ledger.ClaimReward(ref.ID)
	if err != nil {
		log.Printf("[attribution] reward claim failed for referral %d, access granted without settlement: %v", ref.ID, err)
		return Outcome{Kind: OutcomeWelcome}
	}
	if claimed {
		if err := s.rewards.Settle(ref); err != nil {
			// The claim is burned but the payout is not applied; the earnings
			// table now disagrees with reward_given, which reconciliation
			// replays from. Never re-claim from here.
			log.Printf("[attribution] settlement failed for referral %d (referrer %d), needs reconciliation: %v", ref.ID, ref.ReferrerID, err)
		}
		return Outcome{Kind: OutcomeWelcome, ReferrerRewarded: true}
	}

	info, err := s.rejoins.CheckAndRecord(userID)
	if err != nil {
		log.Printf("[attribution] rejoin bookkeeping failed for %d: %v", userID, err)
		return Outcome{Kind: OutcomeWelcome}
	}
	if !info.IsRejoin {
		return Outcome{Kind: OutcomeWelcome}
	}
	return Outcome{Kind: OutcomeRejoinSeen, RejoinCount: info.PriorJoinCount}
}
