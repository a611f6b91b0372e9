package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// TreasuryRepository handles the treasury ledger and payment batches
type TreasuryRepository struct {
	db *Database
}

// NewTreasuryRepository creates a new TreasuryRepository
func NewTreasuryRepository(db *Database) *TreasuryRepository {
	return &TreasuryRepository{
		db: db,
	}
}

// Record appends one ledger entry
func (r *TreasuryRepository) Record(txn *models.TreasuryTransaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	txn.CreatedAt = time.Now()

	query := `INSERT INTO treasury_transactions (id, direction, amount_ada, tx_hash,
			  drop_id, batch_id, note, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.GetDB().Exec(query,
		txn.ID, txn.Direction, txn.AmountADA, txn.TxHash, txn.DropID, txn.BatchID,
		txn.Note, txn.CreatedAt)

	return err
}

// Totals returns the historical funded and paid-out sums plus the payout count
func (r *TreasuryRepository) Totals() (funded, paid decimal.Decimal, payouts int, err error) {
	row := struct {
		Funded  decimal.Decimal `db:"funded"`
		Paid    decimal.Decimal `db:"paid"`
		Payouts int             `db:"payouts"`
	}{}

	query := `SELECT
			  COALESCE(SUM(amount_ada) FILTER (WHERE direction = 'fund'), 0) AS funded,
			  COALESCE(SUM(amount_ada) FILTER (WHERE direction = 'payout'), 0) AS paid,
			  COUNT(*) FILTER (WHERE direction = 'payout') AS payouts
			  FROM treasury_transactions`

	if err = r.db.GetDB().Get(&row, query); err != nil {
		return decimal.Zero, decimal.Zero, 0, err
	}

	return row.Funded, row.Paid, row.Payouts, nil
}

// ListRecent returns the most recent ledger entries
func (r *TreasuryRepository) ListRecent(limit int) ([]models.TreasuryTransaction, error) {
	if limit <= 0 {
		limit = 50
	}

	txns := []models.TreasuryTransaction{}
	query := `SELECT id, direction, amount_ada, tx_hash, drop_id, batch_id, note, created_at
			  FROM treasury_transactions
			  ORDER BY created_at DESC
			  LIMIT $1`

	err := r.db.GetDB().Select(&txns, query, limit)
	if err != nil {
		return nil, err
	}

	return txns, nil
}

// CreateBatch records one bulk-approval run
func (r *TreasuryRepository) CreateBatch(batch *models.PaymentBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	batch.CreatedAt = time.Now()

	query := `INSERT INTO payment_batches (id, tx_hash, total_ada, processed_count,
			  pending_count, created_by, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.GetDB().Exec(query,
		batch.ID, batch.TxHash, batch.TotalADA, batch.ProcessedCount,
		batch.PendingCount, batch.CreatedBy, batch.CreatedAt)

	return err
}
