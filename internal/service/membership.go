package service

import "context"

// MembershipChecker answers whether a user currently belongs to the required
// group. Implementations must bound the lookup; callers treat any error as
// "not a member" (fail closed).
type MembershipChecker interface {
	IsMember(ctx context.Context, userID int64) (bool, error)
}
