package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRole represents the role of a user account
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents a user in the system
type User struct {
	ID                string          `json:"id" db:"id"`
	Email             string          `json:"email" db:"email"`
	PasswordHash      string          `json:"-" db:"password_hash"`
	Role              UserRole        `json:"role" db:"role"`
	CardanoAddress    *string         `json:"cardano_address,omitempty" db:"cardano_address"`
	CurrentBalanceADA decimal.Decimal `json:"current_balance_ada" db:"current_balance_ada"`
	PendingRewardsADA decimal.Decimal `json:"pending_rewards_ada" db:"pending_rewards_ada"`
	TotalEarnedADA    decimal.Decimal `json:"total_earned_ada" db:"total_earned_ada"`
	TotalDrops        int             `json:"total_drops" db:"total_drops"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// HasWallet reports whether the user has linked a Cardano address
func (u *User) HasWallet() bool {
	return u.CardanoAddress != nil && *u.CardanoAddress != ""
}

// AuthToken represents the authentication token response
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user,omitempty"`
}

// RegisterRequest represents a request to create a new account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a request to authenticate with email and password
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LinkWalletRequest represents a request to link a Cardano address to a user
type LinkWalletRequest struct {
	CardanoAddress string `json:"cardano_address"`
}

// LinkWalletResponse reports the result of linking a wallet, including any
// deferred payouts settled as a side effect
type LinkWalletResponse struct {
	User          *User           `json:"user"`
	PaidDrops     int             `json:"paid_drops"`
	PaidAmountADA decimal.Decimal `json:"paid_amount_ada"`
	TxHash        string          `json:"tx_hash,omitempty"`
}
