package service

import (
	"encoding/json"
	"fmt"
	"log"

	"cashpoints/internal/domain"
	"cashpoints/internal/models"
	"cashpoints/internal/repository"
)

// Messenger delivers a notification to the user's chat. The Telegram bot
// implements it; a nil messenger means persisted notifications only.
type Messenger interface {
	SendText(chatID int64, text string) error
}

type NotificationService struct {
	repo      *repository.NotificationRepository
	messenger Messenger
}

func NewNotificationService(repo *repository.NotificationRepository, messenger Messenger) *NotificationService {
	return &NotificationService{repo: repo, messenger: messenger}
}

func (s *NotificationService) notify(userID int64, notifType, title, body string, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	if err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	}); err != nil {
		log.Printf("[notify] failed to persist %s for user %d: %v", notifType, userID, err)
	}
	if s.messenger != nil {
		if err := s.messenger.SendText(userID, body); err != nil {
			log.Printf("[notify] failed to deliver %s to user %d: %v", notifType, userID, err)
		}
	}
}

func (s *NotificationService) NotifyRewardEarned(referrerID int64, amount int64, referralID uint) {
	s.notify(referrerID, domain.NotificationTypeReward,
		"Referral reward earned!",
		fmt.Sprintf("A user you invited joined the group. You earned %d points.", amount),
		map[string]interface{}{"amount": amount, "source_referral_id": referralID})
}

func (s *NotificationService) NotifyRejoinWarning(referrerID, referredID int64) {
	s.notify(referrerID, domain.NotificationTypeRejoinWarning,
		"Repeated rejoin detected",
		"A user you invited keeps leaving and rejoining the group. No further rewards are issued for them.",
		map[string]interface{}{"referred_user_id": referredID})
}
