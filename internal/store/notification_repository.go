package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// NotificationRepository handles database operations related to notifications
type NotificationRepository struct {
	db *Database
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *Database) *NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create creates a new notification
func (r *NotificationRepository) Create(n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()

	query := `INSERT INTO notifications (id, user_id, drop_id, type, title, message, read, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.GetDB().Exec(query,
		n.ID, n.UserID, n.DropID, n.Type, n.Title, n.Message, n.Read, n.CreatedAt)

	return err
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepository) ListByUser(userID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	query := `SELECT id, user_id, drop_id, type, title, message, read, created_at
			  FROM notifications
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT 100`

	err := r.db.GetDB().Select(&notifications, query, userID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead flips a notification's read flag. The user ID guards against
// marking another user's notification.
func (r *NotificationRepository) MarkRead(notificationID, userID string) (bool, error) {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	res, err := r.db.GetDB().Exec(query, notificationID, userID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
