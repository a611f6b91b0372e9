package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

const userColumns = `id, email, password_hash, role, cardano_address, current_balance_ada,
	pending_rewards_ada, total_earned_ada, total_drops, created_at, updated_at`

// UserRepository handles database operations related to users
type UserRepository struct {
	db *Database
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	err := r.db.GetDB().Get(user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetDB().Get(user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// Create creates a new user with the given email, password hash and role
func (r *UserRepository) Create(email, passwordHash string, role models.UserRole) (*models.User, error) {
	now := time.Now()

	user := &models.User{
		ID:                uuid.New().String(),
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              role,
		CurrentBalanceADA: decimal.Zero,
		PendingRewardsADA: decimal.Zero,
		TotalEarnedADA:    decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	query := `INSERT INTO users (id, email, password_hash, role, current_balance_ada,
			  pending_rewards_ada, total_earned_ada, total_drops, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.GetDB().Exec(query, user.ID, user.Email, user.PasswordHash, user.Role,
		user.CurrentBalanceADA, user.PendingRewardsADA, user.TotalEarnedADA,
		user.TotalDrops, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// SetCardanoAddress links a Cardano address to a user
func (r *UserRepository) SetCardanoAddress(userID, address string) error {
	query := `UPDATE users SET cardano_address = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.GetDB().Exec(query, address, time.Now(), userID)
	return err
}

// ApplyReward credits a paid-out reward to the user's balances and counters
func (r *UserRepository) ApplyReward(userID string, amount decimal.Decimal) error {
	query := `UPDATE users SET
			  current_balance_ada = current_balance_ada + $1,
			  total_earned_ada = total_earned_ada + $1,
			  updated_at = $2
			  WHERE id = $3`
	_, err := r.db.GetDB().Exec(query, amount, time.Now(), userID)
	return err
}

// AddPendingReward moves an amount into the user's pending rewards, used when
// a payout is deferred until a wallet is connected
func (r *UserRepository) AddPendingReward(userID string, amount decimal.Decimal) error {
	query := `UPDATE users SET
			  pending_rewards_ada = pending_rewards_ada + $1,
			  updated_at = $2
			  WHERE id = $3`
	_, err := r.db.GetDB().Exec(query, amount, time.Now(), userID)
	return err
}

// IncrementDropCount bumps the user's submission counter
func (r *UserRepository) IncrementDropCount(userID string) error {
	query := `UPDATE users SET total_drops = total_drops + 1, updated_at = $1 WHERE id = $2`
	_, err := r.db.GetDB().Exec(query, time.Now(), userID)
	return err
}

// ListWithDeferredPayouts returns the IDs of users who have connected a wallet
// but still carry drops awaiting payment
func (r *UserRepository) ListWithDeferredPayouts() ([]string, error) {
	ids := []string{}
	query := `SELECT DISTINCT u.id
			  FROM users u
			  JOIN drops d ON d.user_id = u.id
			  WHERE u.cardano_address IS NOT NULL
			  AND d.payment_status = $1`

	err := r.db.GetDB().Select(&ids, query, models.PaymentStatusPendingWallet)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
