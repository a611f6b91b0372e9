package services

import (
	"github.com/shopspring/decimal"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// The store interfaces below are satisfied by the repositories in
// internal/store. Services depend on them rather than on concrete
// repositories so the payment paths can be tested against fakes.

// UserStore is the user persistence surface the services need
type UserStore interface {
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(email, passwordHash string, role models.UserRole) (*models.User, error)
	SetCardanoAddress(userID, address string) error
	ApplyReward(userID string, amount decimal.Decimal) error
	AddPendingReward(userID string, amount decimal.Decimal) error
	IncrementDropCount(userID string) error
	ListWithDeferredPayouts() ([]string, error)
}

// BinStore is the bin persistence surface the services need
type BinStore interface {
	GetByID(id string) (*models.Bin, error)
	GetByQRCode(qrCode string) (*models.Bin, error)
	List(params models.BinParams) ([]models.Bin, int, error)
	Create(bin *models.Bin) error
	Update(bin *models.Bin) error
	RecordDrop(binID string, weightKg float64) error
}

// DropStore is the drop persistence surface the services need
type DropStore interface {
	GetByID(id string) (*models.Drop, error)
	List(params models.DropParams) ([]models.Drop, int, error)
	ListPending() ([]models.Drop, error)
	Create(drop *models.Drop) error
	Review(dropID string, status models.DropStatus, actualReward *decimal.Decimal, actualWeight *float64, notes string) (bool, error)
	MarkPaid(dropID, txHash string, batchID *string) (bool, error)
	MarkPaymentFailed(dropID string) error
	MarkPendingWallet(dropID string, batchID *string) error
	ClaimDeferred(userID string) ([]models.Drop, error)
	CompleteDeferred(userID string, dropIDs []string, txHash string, amount decimal.Decimal) error
	RevertDeferred(dropIDs []string) error
}

// NotificationStore is the notification persistence surface the services need
type NotificationStore interface {
	Create(n *models.Notification) error
	ListByUser(userID string) ([]models.Notification, error)
	MarkRead(notificationID, userID string) (bool, error)
}

// TreasuryStore is the treasury ledger surface the services need
type TreasuryStore interface {
	Record(txn *models.TreasuryTransaction) error
	Totals() (funded, paid decimal.Decimal, payouts int, err error)
	ListRecent(limit int) ([]models.TreasuryTransaction, error)
	CreateBatch(batch *models.PaymentBatch) error
}
