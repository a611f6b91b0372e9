package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DropStatus represents the review status of a drop
type DropStatus string

const (
	DropStatusPending  DropStatus = "pending"
	DropStatusApproved DropStatus = "approved"
	DropStatusRejected DropStatus = "rejected"
)

// PaymentStatus represents the payout status of a drop
type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPendingWallet PaymentStatus = "pending_wallet"
	PaymentStatusProcessing    PaymentStatus = "processing"
	PaymentStatusCompleted     PaymentStatus = "completed"
	PaymentStatusFailed        PaymentStatus = "failed"
)

// DeviceTier represents the risk tier of a dropped item. The tier determines
// the flat estimated reward; the actual reward is set by an admin at review.
type DeviceTier string

const (
	DeviceTierLevel1 DeviceTier = "level1"
	DeviceTierLevel2 DeviceTier = "level2"
	DeviceTierLevel3 DeviceTier = "level3"
	DeviceTierLevel4 DeviceTier = "level4"
	DeviceTierLevel5 DeviceTier = "level5"
)

// Valid reports whether the tier is one of the known levels
func (t DeviceTier) Valid() bool {
	switch t {
	case DeviceTierLevel1, DeviceTierLevel2, DeviceTierLevel3, DeviceTierLevel4, DeviceTierLevel5:
		return true
	}
	return false
}

// Drop represents one user's e-waste submission
type Drop struct {
	ID                 string           `json:"id" db:"id"`
	UserID             string           `json:"user_id" db:"user_id"`
	BinID              string           `json:"bin_id" db:"bin_id"`
	DeviceTier         DeviceTier       `json:"device_tier" db:"device_tier"`
	Description        string           `json:"description" db:"description"`
	PhotoURL           string           `json:"photo_url" db:"photo_url"`
	EstimatedWeightKg  *float64         `json:"estimated_weight_kg,omitempty" db:"estimated_weight_kg"`
	ActualWeightKg     *float64         `json:"actual_weight_kg,omitempty" db:"actual_weight_kg"`
	EstimatedRewardADA decimal.Decimal  `json:"estimated_reward_ada" db:"estimated_reward_ada"`
	ActualRewardADA    *decimal.Decimal `json:"actual_reward_ada,omitempty" db:"actual_reward_ada"`
	Status             DropStatus       `json:"status" db:"status"`
	PaymentStatus      PaymentStatus    `json:"payment_status" db:"payment_status"`
	PaymentTxHash      *string          `json:"payment_tx_hash,omitempty" db:"payment_tx_hash"`
	BatchID            *string          `json:"batch_id,omitempty" db:"batch_id"`
	AdminNotes         *string          `json:"admin_notes,omitempty" db:"admin_notes"`
	SubmittedAt        time.Time        `json:"submitted_at" db:"submitted_at"`
	ReviewedAt         *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
	PaidAt             *time.Time       `json:"paid_at,omitempty" db:"paid_at"`
}

// ReviewAction represents an admin decision on a drop
type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
)

// ReviewDropRequest represents an admin review of a single drop
type ReviewDropRequest struct {
	DropID          string           `json:"drop_id"`
	Action          ReviewAction     `json:"action"`
	ActualRewardADA *decimal.Decimal `json:"actual_reward_ada,omitempty"`
	ActualWeightKg  *float64         `json:"actual_weight_kg,omitempty"`
	AdminNotes      string           `json:"admin_notes,omitempty"`
}

// BatchSubmission is one entry of a batch approval request
type BatchSubmission struct {
	DropID          string          `json:"drop_id"`
	UserID          string          `json:"user_id"`
	ActualRewardADA decimal.Decimal `json:"actual_reward_ada"`
}

// BatchApproveRequest represents a request to approve multiple drops at once
type BatchApproveRequest struct {
	Submissions []BatchSubmission `json:"submissions"`
}

// BatchError records a per-item failure within a batch approval
type BatchError struct {
	DropID string `json:"drop_id"`
	Error  string `json:"error"`
}

// BatchApproveResult aggregates the outcome of a batch approval run
type BatchApproveResult struct {
	BatchID       string          `json:"batch_id"`
	TxHash        string          `json:"tx_hash,omitempty"`
	Processed     int             `json:"processed"`
	PendingWallet int             `json:"pending_wallet"`
	TotalPaidADA  decimal.Decimal `json:"total_paid_ada"`
	Errors        []BatchError    `json:"errors,omitempty"`
}

// DropListResponse represents the response for listing drops
type DropListResponse struct {
	Drops      []Drop `json:"drops"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// DropParams represents the parameters for filtering drops
type DropParams struct {
	UserID        string        `json:"user_id"`
	BinID         string        `json:"bin_id"`
	Status        DropStatus    `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Page          int           `json:"page"`
	PageSize      int           `json:"page_size"`
}
