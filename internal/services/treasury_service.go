package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/chain"
	"github.com/ecodrop/ecodrop-api/internal/models"
)

// TreasuryService tracks the pooled payout wallet. The live balance is always
// read from the chain; ledger rows only feed historical totals.
type TreasuryService struct {
	ledger  TreasuryStore
	node    chain.Node
	address string
	log     *logrus.Logger
}

// NewTreasuryService creates a new TreasuryService
func NewTreasuryService(ledger TreasuryStore, node chain.Node, treasuryAddress string, log *logrus.Logger) *TreasuryService {
	return &TreasuryService{
		ledger:  ledger,
		node:    node,
		address: treasuryAddress,
		log:     log,
	}
}

// Status returns the live balance together with historical totals
func (s *TreasuryService) Status() (*models.TreasuryStatus, error) {
	balance, err := s.node.Balance(s.address)
	if err != nil {
		return nil, fmt.Errorf("failed to query treasury balance: %w", err)
	}

	funded, paid, payouts, err := s.ledger.Totals()
	if err != nil {
		return nil, err
	}

	return &models.TreasuryStatus{
		Address:        s.address,
		Network:        s.node.Network(),
		BalanceADA:     balance,
		TotalFundedADA: funded,
		TotalPaidADA:   paid,
		PayoutCount:    payouts,
	}, nil
}

// EnsureBalance fails when the pooled balance cannot cover the given amount
func (s *TreasuryService) EnsureBalance(amount decimal.Decimal) error {
	balance, err := s.node.Balance(s.address)
	if err != nil {
		return fmt.Errorf("failed to query treasury balance: %w", err)
	}

	if balance.LessThan(amount) {
		return fmt.Errorf("%w: %s ADA available, %s ADA requested", ErrInsufficientTreasury, balance, amount)
	}

	return nil
}

// Fund records an inbound funding transfer in the ledger. The transfer itself
// happens on-chain from the admin wallet; this is the bookkeeping side.
func (s *TreasuryService) Fund(req models.FundTreasuryRequest) (*models.TreasuryTransaction, error) {
	if req.AmountADA.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: funding amount must be positive", ErrInvalidInput)
	}

	txn := &models.TreasuryTransaction{
		Direction: models.TreasuryDirectionFund,
		AmountADA: req.AmountADA,
		Note:      req.Note,
	}
	if req.TxHash != "" {
		txn.TxHash = &req.TxHash
	}

	if err := s.ledger.Record(txn); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"amount_ada": req.AmountADA,
		"tx_hash":    req.TxHash,
	}).Info("treasury funded")

	return txn, nil
}

// RecordPayout appends a payout ledger entry. Ledger failures are logged but
// never fail the payment that already happened.
func (s *TreasuryService) RecordPayout(amount decimal.Decimal, txHash string, dropID, batchID *string) {
	txn := &models.TreasuryTransaction{
		Direction: models.TreasuryDirectionPayout,
		AmountADA: amount,
		TxHash:    &txHash,
		DropID:    dropID,
		BatchID:   batchID,
	}

	if err := s.ledger.Record(txn); err != nil {
		s.log.WithError(err).WithField("tx_hash", txHash).Error("failed to record treasury payout")
	}
}

// ListRecent returns recent ledger entries
func (s *TreasuryService) ListRecent(limit int) ([]models.TreasuryTransaction, error) {
	return s.ledger.ListRecent(limit)
}

// CreateBatch records one bulk-approval run
func (s *TreasuryService) CreateBatch(batch *models.PaymentBatch) error {
	return s.ledger.CreateBatch(batch)
}
