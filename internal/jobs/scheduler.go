// Package jobs runs the background maintenance tasks: retrying deferred
// payouts and logging a periodic treasury snapshot.
package jobs

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/services"
)

// Scheduler owns the cron runner
type Scheduler struct {
	cron     *cron.Cron
	users    services.UserStore
	wallets  *services.WalletService
	treasury *services.TreasuryService
	log      *logrus.Logger
}

// NewScheduler creates a new Scheduler
func NewScheduler(users services.UserStore, wallets *services.WalletService,
	treasury *services.TreasuryService, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		users:    users,
		wallets:  wallets,
		treasury: treasury,
		log:      log,
	}
}

// Start registers the jobs and starts the runner
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 10m", s.retryDeferredPayouts); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@every 1h", s.logTreasurySnapshot); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("background jobs started")
	return nil
}

// Stop stops the runner and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// retryDeferredPayouts settles deferred drops for users whose wallet-connect
// payout failed earlier. The claim inside SettleDeferred keeps this safe to
// run concurrently with a wallet-connect request.
func (s *Scheduler) retryDeferredPayouts() {
	userIDs, err := s.users.ListWithDeferredPayouts()
	if err != nil {
		s.log.WithError(err).Error("failed to list users with deferred payouts")
		return
	}

	for _, userID := range userIDs {
		user, err := s.users.GetByID(userID)
		if err != nil || user == nil || !user.HasWallet() {
			continue
		}

		paid, total, txHash, err := s.wallets.SettleDeferred(userID, *user.CardanoAddress)
		if err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("deferred payout retry failed")
			continue
		}
		if paid > 0 {
			s.log.WithFields(logrus.Fields{
				"user_id":    userID,
				"paid_drops": paid,
				"amount_ada": total,
				"tx_hash":    txHash,
			}).Info("settled deferred payouts")
		}
	}
}

// logTreasurySnapshot records the pooled balance for operational visibility
func (s *Scheduler) logTreasurySnapshot() {
	status, err := s.treasury.Status()
	if err != nil {
		s.log.WithError(err).Error("failed to read treasury status")
		return
	}

	s.log.WithFields(logrus.Fields{
		"balance_ada":      status.BalanceADA,
		"total_funded_ada": status.TotalFundedADA,
		"total_paid_ada":   status.TotalPaidADA,
		"payout_count":     status.PayoutCount,
	}).Info("treasury snapshot")
}
