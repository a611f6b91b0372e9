package services

import (
	"fmt"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// NotificationService exposes a user's notification feed
type NotificationService struct {
	notifications NotificationStore
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{
		notifications: notifications,
	}
}

// ListByUser retrieves a user's notifications
func (s *NotificationService) ListByUser(userID string) ([]models.Notification, error) {
	return s.notifications.ListByUser(userID)
}

// MarkRead flips a notification's read flag
func (s *NotificationService) MarkRead(notificationID, userID string) error {
	updated, err := s.notifications.MarkRead(notificationID, userID)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("%w: notification", ErrNotFound)
	}
	return nil
}
