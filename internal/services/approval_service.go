package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/chain"
	"github.com/ecodrop/ecodrop-api/internal/models"
)

// ApprovalService handles admin review of drops and the resulting payouts
type ApprovalService struct {
	drops         DropStore
	users         UserStore
	notifications NotificationStore
	treasury      *TreasuryService
	email         *EmailService
	node          chain.Node
	log           *logrus.Logger
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(drops DropStore, users UserStore, notifications NotificationStore,
	treasury *TreasuryService, email *EmailService, node chain.Node, log *logrus.Logger) *ApprovalService {
	return &ApprovalService{
		drops:         drops,
		users:         users,
		notifications: notifications,
		treasury:      treasury,
		email:         email,
		node:          node,
		log:           log,
	}
}

// Review applies a single admin decision. Approval requires the user to have
// a linked wallet and pays the reward out of the treasury in the same call.
func (s *ApprovalService) Review(req models.ReviewDropRequest) (*models.Drop, error) {
	if req.DropID == "" {
		return nil, fmt.Errorf("%w: drop_id is required", ErrInvalidInput)
	}

	drop, err := s.drops.GetByID(req.DropID)
	if err != nil {
		return nil, err
	}
	if drop == nil {
		return nil, fmt.Errorf("%w: drop", ErrNotFound)
	}
	if drop.Status != models.DropStatusPending {
		return nil, ErrAlreadyReviewed
	}

	switch req.Action {
	case models.ReviewActionReject:
		return s.reject(drop, req.AdminNotes)
	case models.ReviewActionApprove:
		if req.ActualRewardADA == nil {
			return nil, fmt.Errorf("%w: actual_reward_ada is required for approval", ErrInvalidInput)
		}
		return s.approve(drop, *req.ActualRewardADA, req.ActualWeightKg, req.AdminNotes)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, req.Action)
	}
}

func (s *ApprovalService) reject(drop *models.Drop, notes string) (*models.Drop, error) {
	updated, err := s.drops.Review(drop.ID, models.DropStatusRejected, nil, nil, notes)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyReviewed
	}

	s.notify(drop.UserID, drop.ID, models.NotificationDropRejected,
		"Submission rejected",
		fmt.Sprintf("Your %s submission was rejected. %s", drop.DeviceTier, notes))

	return s.drops.GetByID(drop.ID)
}

func (s *ApprovalService) approve(drop *models.Drop, reward decimal.Decimal, weight *float64, notes string) (*models.Drop, error) {
	if err := ValidateActualReward(reward); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(drop.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if !user.HasWallet() {
		return nil, ErrWalletNotConnected
	}

	if err := s.treasury.EnsureBalance(reward); err != nil {
		return nil, err
	}

	// Claim the drop before paying. If another admin won the race, stop here
	// with nothing sent.
	updated, err := s.drops.Review(drop.ID, models.DropStatusApproved, &reward, weight, notes)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyReviewed
	}

	txHash, err := s.node.Send([]chain.Payout{{Address: *user.CardanoAddress, AmountADA: reward}})
	if err != nil {
		if markErr := s.drops.MarkPaymentFailed(drop.ID); markErr != nil {
			s.log.WithError(markErr).WithField("drop_id", drop.ID).Error("failed to mark payment failed")
		}
		return nil, fmt.Errorf("payment failed: %w", err)
	}

	if _, err := s.drops.MarkPaid(drop.ID, txHash, nil); err != nil {
		// The payment went through; losing the bookkeeping is the worse
		// outcome, so surface it loudly but keep going.
		s.log.WithError(err).WithFields(logrus.Fields{
			"drop_id": drop.ID,
			"tx_hash": txHash,
		}).Error("payment submitted but drop row not updated")
	}

	if err := s.users.ApplyReward(user.ID, reward); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("failed to credit user balance")
	}

	dropID := drop.ID
	s.treasury.RecordPayout(reward, txHash, &dropID, nil)

	s.notify(user.ID, drop.ID, models.NotificationDropApproved,
		"Submission approved",
		fmt.Sprintf("Your %s submission was approved for %s ADA.", drop.DeviceTier, reward))
	s.email.SendDropApproved(user.Email, drop, reward, txHash)

	return s.drops.GetByID(drop.ID)
}

// BatchApprove processes a set of approvals best-effort: wallet-holding users
// are paid in one batched transaction, walletless users are deferred until
// they connect a wallet, and per-item failures never stop the run.
func (s *ApprovalService) BatchApprove(adminID string, req models.BatchApproveRequest) (*models.BatchApproveResult, error) {
	if len(req.Submissions) == 0 {
		return nil, fmt.Errorf("%w: no submissions given", ErrInvalidInput)
	}
	if len(req.Submissions) > chain.MaxRecipients {
		return nil, fmt.Errorf("%w: batch of %d exceeds the %d submission ceiling", ErrInvalidInput, len(req.Submissions), chain.MaxRecipients)
	}

	batchID := uuid.New().String()
	result := &models.BatchApproveResult{
		BatchID:      batchID,
		TotalPaidADA: decimal.Zero,
	}

	type payable struct {
		drop   *models.Drop
		user   *models.User
		amount decimal.Decimal
	}
	payables := []payable{}

	for _, sub := range req.Submissions {
		drop, user, err := s.vetSubmission(sub)
		if err != nil {
			result.Errors = append(result.Errors, models.BatchError{DropID: sub.DropID, Error: err.Error()})
			continue
		}

		// Claim the drop. Losing the race to another admin is a per-item error.
		updated, err := s.drops.Review(drop.ID, models.DropStatusApproved, &sub.ActualRewardADA, nil, "")
		if err != nil {
			result.Errors = append(result.Errors, models.BatchError{DropID: sub.DropID, Error: err.Error()})
			continue
		}
		if !updated {
			result.Errors = append(result.Errors, models.BatchError{DropID: sub.DropID, Error: ErrAlreadyReviewed.Error()})
			continue
		}

		if !user.HasWallet() {
			s.deferPayout(drop, user, sub.ActualRewardADA, batchID)
			result.PendingWallet++
			continue
		}

		payables = append(payables, payable{drop: drop, user: user, amount: sub.ActualRewardADA})
	}

	var txHash string
	if len(payables) > 0 {
		// Merge payouts by address so one user's several drops become one output
		totals := map[string]decimal.Decimal{}
		order := []string{}
		total := decimal.Zero
		for _, p := range payables {
			addr := *p.user.CardanoAddress
			if _, seen := totals[addr]; !seen {
				order = append(order, addr)
			}
			totals[addr] = totals[addr].Add(p.amount)
			total = total.Add(p.amount)
		}

		payouts := make([]chain.Payout, 0, len(order))
		for _, addr := range order {
			payouts = append(payouts, chain.Payout{Address: addr, AmountADA: totals[addr]})
		}

		err := s.treasury.EnsureBalance(total)
		if err == nil {
			txHash, err = s.node.Send(payouts)
		}

		if err != nil {
			for _, p := range payables {
				if markErr := s.drops.MarkPaymentFailed(p.drop.ID); markErr != nil {
					s.log.WithError(markErr).WithField("drop_id", p.drop.ID).Error("failed to mark payment failed")
				}
				result.Errors = append(result.Errors, models.BatchError{DropID: p.drop.ID, Error: err.Error()})
			}
		} else {
			for _, p := range payables {
				s.settlePaid(p.drop, p.user, p.amount, txHash, batchID)
				result.Processed++
				result.TotalPaidADA = result.TotalPaidADA.Add(p.amount)
			}
			result.TxHash = txHash
		}
	}

	batch := &models.PaymentBatch{
		ID:             batchID,
		TotalADA:       result.TotalPaidADA,
		ProcessedCount: result.Processed,
		PendingCount:   result.PendingWallet,
		CreatedBy:      adminID,
	}
	if txHash != "" {
		batch.TxHash = &txHash
	}
	if err := s.treasury.CreateBatch(batch); err != nil {
		s.log.WithError(err).WithField("batch_id", batchID).Error("failed to record payment batch")
	}

	return result, nil
}

// vetSubmission validates one batch entry without mutating anything
func (s *ApprovalService) vetSubmission(sub models.BatchSubmission) (*models.Drop, *models.User, error) {
	if err := ValidateActualReward(sub.ActualRewardADA); err != nil {
		return nil, nil, err
	}

	drop, err := s.drops.GetByID(sub.DropID)
	if err != nil {
		return nil, nil, err
	}
	if drop == nil {
		return nil, nil, fmt.Errorf("%w: drop", ErrNotFound)
	}
	if drop.Status != models.DropStatusPending {
		return nil, nil, ErrAlreadyReviewed
	}
	if sub.UserID != "" && sub.UserID != drop.UserID {
		return nil, nil, fmt.Errorf("%w: user_id does not match drop", ErrInvalidInput)
	}

	user, err := s.users.GetByID(drop.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	return drop, user, nil
}

// deferPayout parks an approved drop until its user connects a wallet
func (s *ApprovalService) deferPayout(drop *models.Drop, user *models.User, amount decimal.Decimal, batchID string) {
	if err := s.drops.MarkPendingWallet(drop.ID, &batchID); err != nil {
		s.log.WithError(err).WithField("drop_id", drop.ID).Error("failed to defer payout")
		return
	}
	if err := s.users.AddPendingReward(user.ID, amount); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("failed to track pending reward")
	}

	s.notify(user.ID, drop.ID, models.NotificationWalletNeeded,
		"Connect a wallet to receive your reward",
		fmt.Sprintf("Your %s submission was approved for %s ADA. Connect a Cardano wallet to receive it.", drop.DeviceTier, amount))
	s.email.SendWalletReminder(user.Email, amount)
}

// settlePaid finishes the bookkeeping for one drop after a successful batched
// payment
func (s *ApprovalService) settlePaid(drop *models.Drop, user *models.User, amount decimal.Decimal, txHash, batchID string) {
	if _, err := s.drops.MarkPaid(drop.ID, txHash, &batchID); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"drop_id": drop.ID,
			"tx_hash": txHash,
		}).Error("payment submitted but drop row not updated")
	}
	if err := s.users.ApplyReward(user.ID, amount); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Error("failed to credit user balance")
	}

	dropID := drop.ID
	s.treasury.RecordPayout(amount, txHash, &dropID, &batchID)

	s.notify(user.ID, drop.ID, models.NotificationDropApproved,
		"Submission approved",
		fmt.Sprintf("Your %s submission was approved for %s ADA.", drop.DeviceTier, amount))
	s.email.SendDropApproved(user.Email, drop, amount, txHash)
}

// notify inserts a notification row; failures are logged, never propagated
func (s *ApprovalService) notify(userID, dropID string, kind models.NotificationType, title, message string) {
	n := &models.Notification{
		UserID:  userID,
		DropID:  &dropID,
		Type:    kind,
		Title:   title,
		Message: message,
	}
	if err := s.notifications.Create(n); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to create notification")
	}
}
