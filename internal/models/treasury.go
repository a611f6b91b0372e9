package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TreasuryDirection represents the direction of a treasury ledger entry
type TreasuryDirection string

const (
	TreasuryDirectionFund   TreasuryDirection = "fund"
	TreasuryDirectionPayout TreasuryDirection = "payout"
)

// TreasuryTransaction is one entry of the treasury funding/payout ledger.
// The authoritative balance is never stored; it is recomputed from wallet
// UTXOs while ledger rows serve historical totals only.
type TreasuryTransaction struct {
	ID        string            `json:"id" db:"id"`
	Direction TreasuryDirection `json:"direction" db:"direction"`
	AmountADA decimal.Decimal   `json:"amount_ada" db:"amount_ada"`
	TxHash    *string           `json:"tx_hash,omitempty" db:"tx_hash"`
	DropID    *string           `json:"drop_id,omitempty" db:"drop_id"`
	BatchID   *string           `json:"batch_id,omitempty" db:"batch_id"`
	Note      string            `json:"note" db:"note"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// PaymentBatch records one bulk-approval run
type PaymentBatch struct {
	ID             string          `json:"id" db:"id"`
	TxHash         *string         `json:"tx_hash,omitempty" db:"tx_hash"`
	TotalADA       decimal.Decimal `json:"total_ada" db:"total_ada"`
	ProcessedCount int             `json:"processed_count" db:"processed_count"`
	PendingCount   int             `json:"pending_count" db:"pending_count"`
	CreatedBy      string          `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// TreasuryStatus is the aggregate view returned by the treasury status endpoint
type TreasuryStatus struct {
	Address        string          `json:"address"`
	Network        string          `json:"network"`
	BalanceADA     decimal.Decimal `json:"balance_ada"`
	TotalFundedADA decimal.Decimal `json:"total_funded_ada"`
	TotalPaidADA   decimal.Decimal `json:"total_paid_ada"`
	PayoutCount    int             `json:"payout_count"`
}

// FundTreasuryRequest represents a request to record treasury funding
type FundTreasuryRequest struct {
	AmountADA decimal.Decimal `json:"amount_ada"`
	TxHash    string          `json:"tx_hash,omitempty"`
	Note      string          `json:"note,omitempty"`
}
