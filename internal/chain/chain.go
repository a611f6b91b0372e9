// Package chain provides access to the Cardano network for treasury balance
// queries and reward payouts. A single transaction can pay multiple
// recipients, which is how batch approvals settle in one submit.
package chain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MinPaymentADA is the smallest payout the chain layer accepts. Cardano
	// outputs below roughly 1 ADA are rejected by the ledger's min-UTXO rule.
	MinPaymentADA = 1

	// MaxRecipients is the payee ceiling for a single transaction
	MaxRecipients = 50

	lovelacePerADA = 1_000_000
)

// Payout is one recipient and amount within a transaction
type Payout struct {
	Address   string
	AmountADA decimal.Decimal
}

// Node is the narrow chain surface the services depend on
type Node interface {
	// Balance returns the spendable ADA at an address (sum of UTXO lovelace)
	Balance(address string) (decimal.Decimal, error)

	// Send builds, signs and submits one transaction paying every payout from
	// the treasury wallet, and returns the transaction hash
	Send(payouts []Payout) (string, error)

	// Network names the network the node operates on
	Network() string
}

// ValidatePayouts applies the payment guards shared by every Node
// implementation
func ValidatePayouts(payouts []Payout) error {
	if len(payouts) == 0 {
		return fmt.Errorf("no payouts given")
	}
	if len(payouts) > MaxRecipients {
		return fmt.Errorf("too many recipients: %d exceeds the per-transaction ceiling of %d", len(payouts), MaxRecipients)
	}

	minimum := decimal.NewFromInt(MinPaymentADA)
	for _, p := range payouts {
		if p.Address == "" {
			return fmt.Errorf("payout with empty address")
		}
		if p.AmountADA.LessThan(minimum) {
			return fmt.Errorf("payout of %s ADA to %s is below the %d ADA minimum", p.AmountADA, p.Address, MinPaymentADA)
		}
	}

	return nil
}

// IsAddressValid checks the format of a Cardano address. This is a prefix
// check, not full bech32 validation; the chain rejects malformed addresses
// at submit time.
func IsAddressValid(address string) bool {
	return strings.HasPrefix(address, "addr1") || strings.HasPrefix(address, "addr_test1")
}

// ToLovelace converts an ADA amount to lovelace, truncating sub-lovelace
// precision
func ToLovelace(ada decimal.Decimal) uint64 {
	return uint64(ada.Mul(decimal.NewFromInt(lovelacePerADA)).IntPart())
}

// FromLovelace converts a lovelace amount to ADA
func FromLovelace(lovelace uint64) decimal.Decimal {
	return decimal.NewFromUint64(lovelace).Div(decimal.NewFromInt(lovelacePerADA))
}
