package domain

const (
	ReferralStatusPending  = "pending"
	ReferralStatusVerified = "verified"
)

const EarningsSourceReferral = "referral"

const (
	NotificationTypeReward        = "REFERRAL_REWARD"
	NotificationTypeRejoinWarning = "REJOIN_WARNING"
)
