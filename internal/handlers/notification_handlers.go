package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/services"
)

// ListNotifications handles listing the authenticated user's notifications
func ListNotifications(notificationService *services.NotificationService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		notifications, err := notificationService.ListByUser(userID)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, map[string]interface{}{
			"notifications": notifications,
		})
	}
}

// MarkNotificationRead handles flipping a notification's read flag
func MarkNotificationRead(notificationService *services.NotificationService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		notificationID := chi.URLParam(r, "id")
		if notificationID == "" {
			respondError(w, http.StatusBadRequest, "notification ID is required")
			return
		}

		if err := notificationService.MarkRead(notificationID, userID); err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, map[string]string{
			"message": "notification marked as read",
		})
	}
}
