package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/chain"
	"github.com/ecodrop/ecodrop-api/internal/models"
)

// WalletService links Cardano addresses to users and settles payouts that
// were deferred while the user had no wallet
type WalletService struct {
	users         UserStore
	drops         DropStore
	notifications NotificationStore
	treasury      *TreasuryService
	node          chain.Node
	log           *logrus.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(users UserStore, drops DropStore, notifications NotificationStore,
	treasury *TreasuryService, node chain.Node, log *logrus.Logger) *WalletService {
	return &WalletService{
		users:         users,
		drops:         drops,
		notifications: notifications,
		treasury:      treasury,
		node:          node,
		log:           log,
	}
}

// LinkWallet stores the user's Cardano address and settles any deferred
// payouts in a single batched transaction
func (s *WalletService) LinkWallet(userID, address string) (*models.LinkWalletResponse, error) {
	if !chain.IsAddressValid(address) {
		return nil, fmt.Errorf("%w: not a Cardano address", ErrInvalidInput)
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	if err := s.users.SetCardanoAddress(userID, address); err != nil {
		return nil, err
	}

	paid, total, txHash, err := s.SettleDeferred(userID, address)
	if err != nil {
		// The wallet is linked; the deferred payout retries later
		s.log.WithError(err).WithField("user_id", userID).Warn("deferred payout failed after wallet link")
	}

	user, err = s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	return &models.LinkWalletResponse{
		User:          user,
		PaidDrops:     paid,
		PaidAmountADA: total,
		TxHash:        txHash,
	}, nil
}

// SettleDeferred pays out all of a user's wallet-deferred drops in one
// transaction. Claiming the rows first makes a concurrent second call settle
// nothing, so a double invocation cannot double-pay.
func (s *WalletService) SettleDeferred(userID, address string) (int, decimal.Decimal, string, error) {
	claimed, err := s.drops.ClaimDeferred(userID)
	if err != nil {
		return 0, decimal.Zero, "", err
	}
	if len(claimed) == 0 {
		return 0, decimal.Zero, "", nil
	}

	ids := make([]string, 0, len(claimed))
	total := decimal.Zero
	for _, drop := range claimed {
		ids = append(ids, drop.ID)
		if drop.ActualRewardADA != nil {
			total = total.Add(*drop.ActualRewardADA)
		} else {
			total = total.Add(drop.EstimatedRewardADA)
		}
	}

	if err := s.treasury.EnsureBalance(total); err != nil {
		s.revert(ids)
		return 0, decimal.Zero, "", err
	}

	txHash, err := s.node.Send([]chain.Payout{{Address: address, AmountADA: total}})
	if err != nil {
		s.revert(ids)
		return 0, decimal.Zero, "", fmt.Errorf("deferred payout failed: %w", err)
	}

	if err := s.drops.CompleteDeferred(userID, ids, txHash, total); err != nil {
		// The payment went through; losing the bookkeeping is the worse
		// outcome, so surface it loudly but keep going.
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"tx_hash": txHash,
		}).Error("deferred payment submitted but rows not updated")
	}

	for _, drop := range claimed {
		dropID := drop.ID
		amount := drop.EstimatedRewardADA
		if drop.ActualRewardADA != nil {
			amount = *drop.ActualRewardADA
		}
		s.treasury.RecordPayout(amount, txHash, &dropID, drop.BatchID)
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationDropPaid,
		Title:   "Rewards paid out",
		Message: fmt.Sprintf("%d approved submissions were paid out for a total of %s ADA.", len(claimed), total),
	}
	if err := s.notifications.Create(n); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to create notification")
	}

	return len(claimed), total, txHash, nil
}

func (s *WalletService) revert(ids []string) {
	if err := s.drops.RevertDeferred(ids); err != nil {
		s.log.WithError(err).Error("failed to revert claimed deferred drops")
	}
}
