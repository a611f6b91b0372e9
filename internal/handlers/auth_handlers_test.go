package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecodrop/ecodrop-api/internal/config"
	"github.com/ecodrop/ecodrop-api/internal/models"
	"github.com/ecodrop/ecodrop-api/internal/services"
)

// memUserStore is the minimal services.UserStore needed to mint tokens
type memUserStore struct {
	users map[string]*models.User
}

func (m *memUserStore) GetByID(id string) (*models.User, error) {
	return m.users[id], nil
}

func (m *memUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserStore) Create(email, passwordHash string, role models.UserRole) (*models.User, error) {
	u := &models.User{
		ID:           fmt.Sprintf("user-%d", len(m.users)+1),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUserStore) SetCardanoAddress(userID, address string) error          { return nil }
func (m *memUserStore) ApplyReward(userID string, amount decimal.Decimal) error { return nil }
func (m *memUserStore) AddPendingReward(string, decimal.Decimal) error          { return nil }
func (m *memUserStore) IncrementDropCount(userID string) error                  { return nil }
func (m *memUserStore) ListWithDeferredPayouts() ([]string, error)              { return nil, nil }

func newTestAuthService(t *testing.T) *services.AuthService {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	return services.NewAuthService(&memUserStore{users: map[string]*models.User{}}, config.AuthConfig{
		JWTSecret:     "test-secret",
		JWTExpiration: 1,
		BcryptCost:    bcrypt.MinCost,
	}, log)
}

func TestAuthMiddleware(t *testing.T) {
	authService := newTestAuthService(t)
	token, err := authService.Register(models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	var gotUserID string
	var gotRole models.UserRole
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		gotRole, _ = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(authService)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token.Token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/drops", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, token.User.ID, gotUserID)
	assert.Equal(t, models.UserRoleUser, gotRole)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(next)

	// Ordinary users are turned away
	req := httptest.NewRequest(http.MethodGet, "/api/admin/bins", nil)
	req = req.WithContext(NewContextWithUser(req.Context(), "user-1", models.UserRoleUser))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// No identity at all
	req = httptest.NewRequest(http.MethodGet, "/api/admin/bins", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admins pass through
	req = httptest.NewRequest(http.MethodGet, "/api/admin/bins", nil)
	req = req.WithContext(NewContextWithUser(req.Context(), "admin-1", models.UserRoleAdmin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
