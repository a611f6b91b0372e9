package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/models"
	"github.com/ecodrop/ecodrop-api/internal/services"
)

// Register handles account creation
func Register(authService *services.AuthService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := authService.Register(req)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusCreated, token)
	}
}

// Login handles email/password authentication
func Login(authService *services.AuthService, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := authService.Login(req)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		respondSuccess(w, http.StatusOK, token)
	}
}

// LinkWallet handles linking a Cardano address to the authenticated user.
// Payouts deferred while the user had no wallet settle as a side effect.
func LinkWallet(walletService *services.WalletService, hub *Hub, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var req models.LinkWalletRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := walletService.LinkWallet(userID, req.CardanoAddress)
		if err != nil {
			respondServiceError(w, log, err)
			return
		}

		if result.PaidDrops > 0 {
			hub.BroadcastEvent(EventDeferredPaid, map[string]interface{}{
				"user_id":    userID,
				"paid_drops": result.PaidDrops,
				"tx_hash":    result.TxHash,
			})
		}

		respondSuccess(w, http.StatusOK, result)
	}
}

// AuthMiddleware is a middleware for authenticating requests
func AuthMiddleware(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			// Validate token
			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			// Add user ID and role to request context
			ctx := NewContextWithUser(r.Context(), claims.UserID, claims.Role)

			// Call the next handler with the updated context
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin restricts a route to users with the admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := RoleFromContext(r.Context())
		if !ok || role != models.UserRoleAdmin {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
