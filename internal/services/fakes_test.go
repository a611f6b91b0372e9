package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecodrop/ecodrop-api/internal/chain"
	"github.com/ecodrop/ecodrop-api/internal/models"
)

// In-memory store fakes shared by the service tests.

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) put(u *models.User) *models.User {
	f.users[u.ID] = u
	return u
}

func (f *fakeUserStore) GetByID(id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(email, passwordHash string, role models.UserRole) (*models.User, error) {
	u := &models.User{
		ID:           fmt.Sprintf("user-%d", len(f.users)+1),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	return f.put(u), nil
}

func (f *fakeUserStore) SetCardanoAddress(userID, address string) error {
	if u, ok := f.users[userID]; ok {
		u.CardanoAddress = &address
	}
	return nil
}

func (f *fakeUserStore) ApplyReward(userID string, amount decimal.Decimal) error {
	if u, ok := f.users[userID]; ok {
		u.CurrentBalanceADA = u.CurrentBalanceADA.Add(amount)
		u.TotalEarnedADA = u.TotalEarnedADA.Add(amount)
	}
	return nil
}

func (f *fakeUserStore) AddPendingReward(userID string, amount decimal.Decimal) error {
	if u, ok := f.users[userID]; ok {
		u.PendingRewardsADA = u.PendingRewardsADA.Add(amount)
	}
	return nil
}

func (f *fakeUserStore) IncrementDropCount(userID string) error {
	if u, ok := f.users[userID]; ok {
		u.TotalDrops++
	}
	return nil
}

func (f *fakeUserStore) ListWithDeferredPayouts() ([]string, error) {
	return nil, nil
}

type fakeDropStore struct {
	drops map[string]*models.Drop

	// set when a test needs CompleteDeferred to settle user balances
	users *fakeUserStore
}

func newFakeDropStore() *fakeDropStore {
	return &fakeDropStore{drops: map[string]*models.Drop{}}
}

func (f *fakeDropStore) put(d *models.Drop) *models.Drop {
	copied := *d
	f.drops[d.ID] = &copied
	return f.drops[d.ID]
}

func (f *fakeDropStore) GetByID(id string) (*models.Drop, error) {
	if d, ok := f.drops[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeDropStore) List(params models.DropParams) ([]models.Drop, int, error) {
	out := []models.Drop{}
	for _, d := range f.drops {
		if params.UserID != "" && d.UserID != params.UserID {
			continue
		}
		if params.Status != "" && d.Status != params.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, len(out), nil
}

func (f *fakeDropStore) ListPending() ([]models.Drop, error) {
	out := []models.Drop{}
	for _, d := range f.drops {
		if d.Status == models.DropStatusPending {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDropStore) Create(drop *models.Drop) error {
	if drop.ID == "" {
		drop.ID = fmt.Sprintf("drop-%d", len(f.drops)+1)
	}
	drop.Status = models.DropStatusPending
	drop.PaymentStatus = models.PaymentStatusPending
	drop.SubmittedAt = time.Now()
	f.put(drop)
	return nil
}

func (f *fakeDropStore) Review(dropID string, status models.DropStatus, actualReward *decimal.Decimal, actualWeight *float64, notes string) (bool, error) {
	d, ok := f.drops[dropID]
	if !ok || d.Status != models.DropStatusPending {
		return false, nil
	}
	d.Status = status
	d.ActualRewardADA = actualReward
	d.ActualWeightKg = actualWeight
	if notes != "" {
		d.AdminNotes = &notes
	}
	now := time.Now()
	d.ReviewedAt = &now
	return true, nil
}

func (f *fakeDropStore) MarkPaid(dropID, txHash string, batchID *string) (bool, error) {
	d, ok := f.drops[dropID]
	if !ok || d.PaymentStatus == models.PaymentStatusCompleted {
		return false, nil
	}
	d.PaymentStatus = models.PaymentStatusCompleted
	d.PaymentTxHash = &txHash
	d.BatchID = batchID
	now := time.Now()
	d.PaidAt = &now
	return true, nil
}

func (f *fakeDropStore) MarkPaymentFailed(dropID string) error {
	if d, ok := f.drops[dropID]; ok && d.PaymentStatus != models.PaymentStatusCompleted {
		d.PaymentStatus = models.PaymentStatusFailed
	}
	return nil
}

func (f *fakeDropStore) MarkPendingWallet(dropID string, batchID *string) error {
	if d, ok := f.drops[dropID]; ok && d.PaymentStatus != models.PaymentStatusCompleted {
		d.PaymentStatus = models.PaymentStatusPendingWallet
		d.BatchID = batchID
	}
	return nil
}

func (f *fakeDropStore) ClaimDeferred(userID string) ([]models.Drop, error) {
	out := []models.Drop{}
	for _, d := range f.drops {
		if d.UserID == userID && d.PaymentStatus == models.PaymentStatusPendingWallet {
			d.PaymentStatus = models.PaymentStatusProcessing
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDropStore) CompleteDeferred(userID string, dropIDs []string, txHash string, amount decimal.Decimal) error {
	for _, id := range dropIDs {
		if d, ok := f.drops[id]; ok && d.PaymentStatus == models.PaymentStatusProcessing {
			d.PaymentStatus = models.PaymentStatusCompleted
			d.PaymentTxHash = &txHash
			now := time.Now()
			d.PaidAt = &now
		}
	}
	if f.users != nil {
		if u, ok := f.users.users[userID]; ok {
			u.PendingRewardsADA = u.PendingRewardsADA.Sub(amount)
			if u.PendingRewardsADA.IsNegative() {
				u.PendingRewardsADA = decimal.Zero
			}
			u.CurrentBalanceADA = u.CurrentBalanceADA.Add(amount)
			u.TotalEarnedADA = u.TotalEarnedADA.Add(amount)
		}
	}
	return nil
}

func (f *fakeDropStore) RevertDeferred(dropIDs []string) error {
	for _, id := range dropIDs {
		if d, ok := f.drops[id]; ok && d.PaymentStatus == models.PaymentStatusProcessing {
			d.PaymentStatus = models.PaymentStatusPendingWallet
		}
	}
	return nil
}

type fakeBinStore struct {
	bins map[string]*models.Bin
}

func newFakeBinStore() *fakeBinStore {
	return &fakeBinStore{bins: map[string]*models.Bin{}}
}

func (f *fakeBinStore) put(b *models.Bin) *models.Bin {
	f.bins[b.ID] = b
	return b
}

func (f *fakeBinStore) GetByID(id string) (*models.Bin, error) {
	return f.bins[id], nil
}

func (f *fakeBinStore) GetByQRCode(qrCode string) (*models.Bin, error) {
	for _, b := range f.bins {
		if b.QRCode == qrCode {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeBinStore) List(params models.BinParams) ([]models.Bin, int, error) {
	out := []models.Bin{}
	for _, b := range f.bins {
		if params.ActiveOnly && !b.IsActive {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (f *fakeBinStore) Create(bin *models.Bin) error {
	if bin.ID == "" {
		bin.ID = fmt.Sprintf("bin-%d", len(f.bins)+1)
	}
	f.put(bin)
	return nil
}

func (f *fakeBinStore) Update(bin *models.Bin) error {
	f.bins[bin.ID] = bin
	return nil
}

func (f *fakeBinStore) RecordDrop(binID string, weightKg float64) error {
	if b, ok := f.bins[binID]; ok {
		b.TotalDrops++
		b.CurrentWeightKg += weightKg
	}
	return nil
}

type fakeNotificationStore struct {
	notifications []*models.Notification
}

func (f *fakeNotificationStore) Create(n *models.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationStore) ListByUser(userID string) ([]models.Notification, error) {
	out := []models.Notification{}
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(notificationID, userID string) (bool, error) {
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

type fakeTreasuryStore struct {
	transactions []*models.TreasuryTransaction
	batches      []*models.PaymentBatch
}

func (f *fakeTreasuryStore) Record(txn *models.TreasuryTransaction) error {
	f.transactions = append(f.transactions, txn)
	return nil
}

func (f *fakeTreasuryStore) Totals() (decimal.Decimal, decimal.Decimal, int, error) {
	funded, paid := decimal.Zero, decimal.Zero
	payouts := 0
	for _, txn := range f.transactions {
		switch txn.Direction {
		case models.TreasuryDirectionFund:
			funded = funded.Add(txn.AmountADA)
		case models.TreasuryDirectionPayout:
			paid = paid.Add(txn.AmountADA)
			payouts++
		}
	}
	return funded, paid, payouts, nil
}

func (f *fakeTreasuryStore) ListRecent(limit int) ([]models.TreasuryTransaction, error) {
	out := []models.TreasuryTransaction{}
	for _, txn := range f.transactions {
		out = append(out, *txn)
	}
	return out, nil
}

func (f *fakeTreasuryStore) CreateBatch(batch *models.PaymentBatch) error {
	f.batches = append(f.batches, batch)
	return nil
}

// fakeNode simulates the chain with a fixed balance and predictable hashes
type fakeNode struct {
	balance  decimal.Decimal
	failSend bool
	sends    [][]chain.Payout
}

func (f *fakeNode) Balance(address string) (decimal.Decimal, error) {
	return f.balance, nil
}

func (f *fakeNode) Send(payouts []chain.Payout) (string, error) {
	if err := chain.ValidatePayouts(payouts); err != nil {
		return "", err
	}
	if f.failSend {
		return "", fmt.Errorf("chain unavailable")
	}
	f.sends = append(f.sends, payouts)
	return fmt.Sprintf("tx-hash-%d", len(f.sends)), nil
}

func (f *fakeNode) Network() string {
	return "fake"
}
