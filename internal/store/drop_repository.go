package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

const dropColumns = `id, user_id, bin_id, device_tier, description, photo_url,
	estimated_weight_kg, actual_weight_kg, estimated_reward_ada, actual_reward_ada,
	status, payment_status, payment_tx_hash, batch_id, admin_notes, submitted_at,
	reviewed_at, paid_at`

// DropRepository handles database operations related to drops
type DropRepository struct {
	db *Database
}

// NewDropRepository creates a new DropRepository
func NewDropRepository(db *Database) *DropRepository {
	return &DropRepository{
		db: db,
	}
}

// GetByID retrieves a drop by ID
func (r *DropRepository) GetByID(id string) (*models.Drop, error) {
	drop := &models.Drop{}
	query := `SELECT ` + dropColumns + ` FROM drops WHERE id = $1`

	err := r.db.GetDB().Get(drop, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return drop, nil
}

// List retrieves drops based on filter parameters
func (r *DropRepository) List(params models.DropParams) ([]models.Drop, int, error) {
	drops := []models.Drop{}

	// Default pagination values
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}

	baseQuery := `FROM drops WHERE 1 = 1`
	args := []interface{}{}

	if params.UserID != "" {
		args = append(args, params.UserID)
		baseQuery += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if params.BinID != "" {
		args = append(args, params.BinID)
		baseQuery += fmt.Sprintf(` AND bin_id = $%d`, len(args))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		baseQuery += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if params.PaymentStatus != "" {
		args = append(args, params.PaymentStatus)
		baseQuery += fmt.Sprintf(` AND payment_status = $%d`, len(args))
	}

	// Count total matching records
	var total int
	countQuery := `SELECT COUNT(*) ` + baseQuery
	err := r.db.GetDB().Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	// Get paginated results
	offset := (params.Page - 1) * params.PageSize
	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d`,
		dropColumns, baseQuery, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	err = r.db.GetDB().Select(&drops, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return drops, total, nil
}

// ListPending retrieves all drops awaiting review, oldest first
func (r *DropRepository) ListPending() ([]models.Drop, error) {
	drops := []models.Drop{}
	query := `SELECT ` + dropColumns + ` FROM drops WHERE status = $1 ORDER BY submitted_at ASC`

	err := r.db.GetDB().Select(&drops, query, models.DropStatusPending)
	if err != nil {
		return nil, err
	}

	return drops, nil
}

// Create creates a new drop
func (r *DropRepository) Create(drop *models.Drop) error {
	if drop.ID == "" {
		drop.ID = uuid.New().String()
	}
	drop.SubmittedAt = time.Now()
	drop.Status = models.DropStatusPending
	drop.PaymentStatus = models.PaymentStatusPending

	query := `INSERT INTO drops (id, user_id, bin_id, device_tier, description, photo_url,
			  estimated_weight_kg, estimated_reward_ada, status, payment_status, submitted_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.GetDB().Exec(query,
		drop.ID, drop.UserID, drop.BinID, drop.DeviceTier, drop.Description,
		drop.PhotoURL, drop.EstimatedWeightKg, drop.EstimatedRewardADA,
		drop.Status, drop.PaymentStatus, drop.SubmittedAt)

	return err
}

// Review transitions a pending drop to approved or rejected, recording the
// admin-assigned reward and measured weight. The update is conditional on the
// drop still being pending, so a second concurrent review of the same drop
// changes nothing. Returns whether a row was updated.
func (r *DropRepository) Review(dropID string, status models.DropStatus, actualReward *decimal.Decimal, actualWeight *float64, notes string) (bool, error) {
	query := `UPDATE drops SET status = $1, actual_reward_ada = $2, actual_weight_kg = $3,
			  admin_notes = $4, reviewed_at = $5
			  WHERE id = $6 AND status = $7`

	res, err := r.db.GetDB().Exec(query, status, actualReward, actualWeight, notes,
		time.Now(), dropID, models.DropStatusPending)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// MarkPaid records a completed payout. The update is conditional on the drop
// not already being paid, which blocks double-payment under concurrent
// approvals. Returns whether a row was updated.
func (r *DropRepository) MarkPaid(dropID, txHash string, batchID *string) (bool, error) {
	query := `UPDATE drops SET payment_status = $1, payment_tx_hash = $2, batch_id = $3,
			  paid_at = $4
			  WHERE id = $5 AND payment_status <> $1`

	res, err := r.db.GetDB().Exec(query, models.PaymentStatusCompleted, txHash, batchID,
		time.Now(), dropID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// MarkPaymentFailed records a failed payout attempt
func (r *DropRepository) MarkPaymentFailed(dropID string) error {
	query := `UPDATE drops SET payment_status = $1
			  WHERE id = $2 AND payment_status <> $3`
	_, err := r.db.GetDB().Exec(query, models.PaymentStatusFailed, dropID,
		models.PaymentStatusCompleted)
	return err
}

// MarkPendingWallet defers a payout until the user connects a wallet
func (r *DropRepository) MarkPendingWallet(dropID string, batchID *string) error {
	query := `UPDATE drops SET payment_status = $1, batch_id = $2
			  WHERE id = $3 AND payment_status <> $4`
	_, err := r.db.GetDB().Exec(query, models.PaymentStatusPendingWallet, batchID,
		dropID, models.PaymentStatusCompleted)
	return err
}

// ClaimDeferred atomically claims all of a user's wallet-deferred drops by
// moving them to processing, and returns the claimed rows. A concurrent
// caller claims nothing, which makes the deferred payout path idempotent.
func (r *DropRepository) ClaimDeferred(userID string) ([]models.Drop, error) {
	drops := []models.Drop{}
	query := `UPDATE drops SET payment_status = $1
			  WHERE user_id = $2 AND payment_status = $3
			  RETURNING ` + dropColumns

	err := r.db.GetDB().Select(&drops, query, models.PaymentStatusProcessing,
		userID, models.PaymentStatusPendingWallet)
	if err != nil {
		return nil, err
	}

	return drops, nil
}

// CompleteDeferred marks a set of claimed drops as paid with a shared tx hash
// and converts the user's pending rewards into settled balance. Both updates
// run in one transaction so a crash between them cannot leave the pending
// amount stranded.
func (r *DropRepository) CompleteDeferred(userID string, dropIDs []string, txHash string, amount decimal.Decimal) error {
	return r.db.Transaction(func(tx *sqlx.Tx) error {
		dropQuery := `UPDATE drops SET payment_status = $1, payment_tx_hash = $2, paid_at = $3
					  WHERE id = ANY($4) AND payment_status = $5`
		if _, err := tx.Exec(dropQuery, models.PaymentStatusCompleted, txHash,
			time.Now(), pq.Array(dropIDs), models.PaymentStatusProcessing); err != nil {
			return err
		}

		userQuery := `UPDATE users SET
					  pending_rewards_ada = GREATEST(pending_rewards_ada - $1, 0),
					  current_balance_ada = current_balance_ada + $1,
					  total_earned_ada = total_earned_ada + $1,
					  updated_at = $2
					  WHERE id = $3`
		_, err := tx.Exec(userQuery, amount, time.Now(), userID)
		return err
	})
}

// RevertDeferred returns claimed drops to the wallet-deferred state after a
// failed chain submit
func (r *DropRepository) RevertDeferred(dropIDs []string) error {
	query := `UPDATE drops SET payment_status = $1
			  WHERE id = ANY($2) AND payment_status = $3`
	_, err := r.db.GetDB().Exec(query, models.PaymentStatusPendingWallet,
		pq.Array(dropIDs), models.PaymentStatusProcessing)
	return err
}
