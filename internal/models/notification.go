package models

import (
	"time"
)

// NotificationType classifies user-facing notifications
type NotificationType string

const (
	NotificationDropApproved NotificationType = "drop_approved"
	NotificationDropRejected NotificationType = "drop_rejected"
	NotificationDropPaid     NotificationType = "drop_paid"
	NotificationWalletNeeded NotificationType = "wallet_needed"
)

// Notification represents a user-facing message tied to a drop status change
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	DropID    *string          `json:"drop_id,omitempty" db:"drop_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
