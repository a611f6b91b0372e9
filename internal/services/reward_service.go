package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ecodrop/ecodrop-api/internal/chain"
	"github.com/ecodrop/ecodrop-api/internal/models"
)

// rewardRates is the flat per-tier reward table. Estimates never scale with
// weight; the reviewing admin sets the actual reward and can account for
// weight there.
var rewardRates = map[models.DeviceTier]decimal.Decimal{
	models.DeviceTierLevel1: decimal.RequireFromString("0.5"),
	models.DeviceTierLevel2: decimal.RequireFromString("1.0"),
	models.DeviceTierLevel3: decimal.RequireFromString("1.5"),
	models.DeviceTierLevel4: decimal.RequireFromString("2.0"),
	models.DeviceTierLevel5: decimal.RequireFromString("2.5"),
}

// MaxRewardADA caps the actual reward an admin can assign to a single drop
var MaxRewardADA = decimal.NewFromInt(100)

// RewardService computes reward estimates for submitted items
type RewardService struct{}

// NewRewardService creates a new RewardService
func NewRewardService() *RewardService {
	return &RewardService{}
}

// Estimate returns the flat reward for a device tier
func (s *RewardService) Estimate(tier models.DeviceTier) (decimal.Decimal, error) {
	rate, ok := rewardRates[tier]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown device tier %q", ErrInvalidInput, tier)
	}
	return rate, nil
}

// ValidateActualReward checks an admin-assigned reward amount. The chain
// layer refuses outputs under 1 ADA (Cardano's min-UTXO rule), so anything
// below that floor is rejected here, before the drop is claimed for payment.
func ValidateActualReward(amount decimal.Decimal) error {
	if amount.LessThan(decimal.NewFromInt(chain.MinPaymentADA)) {
		return fmt.Errorf("%w: reward amount %s is below the %d ADA payout minimum", ErrInvalidInput, amount, chain.MinPaymentADA)
	}
	if amount.GreaterThan(MaxRewardADA) {
		return fmt.Errorf("%w: reward amount %s exceeds the %s ADA cap", ErrInvalidInput, amount, MaxRewardADA)
	}
	return nil
}
