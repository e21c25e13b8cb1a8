package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/portvakt/portvakt/internal/logger"
	"github.com/portvakt/portvakt/internal/models"
)

// NotificationService stores internal notifications in the database and
// fans events out to external channels (Discord, Telegram, generic
// webhooks...) via shoutrrr URLs from configuration.
type NotificationService struct {
	DB         *gorm.DB
	NotifyURLs []string
}

func NewNotificationService(db *gorm.DB, notifyURLs []string) *NotificationService {
	return &NotificationService{DB: db, NotifyURLs: notifyURLs}
}

// Create stores an internal notification.
func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

// List returns notifications, newest first.
func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// Notify stores an internal notification and sends it to all configured
// external channels. Delivery failures are logged, never surfaced: the
// call path must not depend on a chat service being reachable.
func (s *NotificationService) Notify(nType models.NotificationType, title, message string) {
	if _, err := s.Create(nType, title, message); err != nil {
		logger.Log().WithError(err).Error("Failed to store notification")
	}
	s.SendExternal(title, message)
}

// SendExternal delivers asynchronously to every configured shoutrrr URL.
func (s *NotificationService) SendExternal(title, message string) {
	for _, url := range s.NotifyURLs {
		go func(url string) {
			// Newline between title and body formats better in chat apps
			msg := fmt.Sprintf("%s\n\n%s", title, message)
			if err := shoutrrr.Send(url, msg); err != nil {
				logger.Log().WithError(err).Error("Failed to send external notification")
			}
		}(url)
	}
}
