package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

const binColumns = `id, qr_code, location_name, address, latitude, longitude, capacity_kg,
	current_weight_kg, is_active, is_operational, total_drops, created_at, updated_at`

// BinRepository handles database operations related to collection bins
type BinRepository struct {
	db *Database
}

// NewBinRepository creates a new BinRepository
func NewBinRepository(db *Database) *BinRepository {
	return &BinRepository{
		db: db,
	}
}

// GetByID retrieves a bin by ID
func (r *BinRepository) GetByID(id string) (*models.Bin, error) {
	bin := &models.Bin{}
	query := `SELECT ` + binColumns + ` FROM bins WHERE id = $1`

	err := r.db.GetDB().Get(bin, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return bin, nil
}

// GetByQRCode retrieves a bin by its QR code identifier
func (r *BinRepository) GetByQRCode(qrCode string) (*models.Bin, error) {
	bin := &models.Bin{}
	query := `SELECT ` + binColumns + ` FROM bins WHERE qr_code = $1`

	err := r.db.GetDB().Get(bin, query, qrCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return bin, nil
}

// List retrieves bins based on filter parameters
func (r *BinRepository) List(params models.BinParams) ([]models.Bin, int, error) {
	bins := []models.Bin{}

	// Default pagination values
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 50
	}

	baseQuery := `FROM bins WHERE 1 = 1`
	args := []interface{}{}

	if params.ActiveOnly {
		baseQuery += ` AND is_active = TRUE`
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
	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		binColumns, baseQuery, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	err = r.db.GetDB().Select(&bins, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return bins, total, nil
}

// Create creates a new bin
func (r *BinRepository) Create(bin *models.Bin) error {
	if bin.ID == "" {
		bin.ID = uuid.New().String()
	}
	now := time.Now()
	bin.CreatedAt = now
	bin.UpdatedAt = now

	query := `INSERT INTO bins (id, qr_code, location_name, address, latitude, longitude,
			  capacity_kg, current_weight_kg, is_active, is_operational, total_drops,
			  created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.GetDB().Exec(query,
		bin.ID, bin.QRCode, bin.LocationName, bin.Address, bin.Latitude, bin.Longitude,
		bin.CapacityKg, bin.CurrentWeightKg, bin.IsActive, bin.IsOperational,
		bin.TotalDrops, bin.CreatedAt, bin.UpdatedAt)

	return err
}

// Update updates a bin
func (r *BinRepository) Update(bin *models.Bin) error {
	bin.UpdatedAt = time.Now()

	query := `UPDATE bins SET location_name = $1, address = $2, latitude = $3,
			  longitude = $4, capacity_kg = $5, current_weight_kg = $6, is_active = $7,
			  is_operational = $8, updated_at = $9
			  WHERE id = $10`

	_, err := r.db.GetDB().Exec(query,
		bin.LocationName, bin.Address, bin.Latitude, bin.Longitude, bin.CapacityKg,
		bin.CurrentWeightKg, bin.IsActive, bin.IsOperational, bin.UpdatedAt, bin.ID)

	return err
}

// RecordDrop bumps the bin's drop counter and accumulated weight
func (r *BinRepository) RecordDrop(binID string, weightKg float64) error {
	query := `UPDATE bins SET total_drops = total_drops + 1,
			  current_weight_kg = current_weight_kg + $1, updated_at = $2
			  WHERE id = $3`
	_, err := r.db.GetDB().Exec(query, weightKg, time.Now(), binID)
	return err
}
