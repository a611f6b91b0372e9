package services

import (
	"fmt"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// BinService handles collection bin management
type BinService struct {
	bins BinStore
}

// NewBinService creates a new BinService
func NewBinService(bins BinStore) *BinService {
	return &BinService{
		bins: bins,
	}
}

// GetByQRCode retrieves a bin by its QR code identifier
func (s *BinService) GetByQRCode(qrCode string) (*models.Bin, error) {
	return s.bins.GetByQRCode(qrCode)
}

// List retrieves bins based on filter parameters
func (s *BinService) List(params models.BinParams) (*models.BinListResponse, error) {
	bins, total, err := s.bins.List(params)
	if err != nil {
		return nil, err
	}

	return &models.BinListResponse{
		Bins:       bins,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}, nil
}

// Create registers a new collection bin
func (s *BinService) Create(req models.CreateBinRequest) (*models.Bin, error) {
	if req.QRCode == "" || req.LocationName == "" {
		return nil, fmt.Errorf("%w: qr_code and location_name are required", ErrInvalidInput)
	}

	existing, err := s.bins.GetByQRCode(req.QRCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a bin with QR code %q already exists", ErrInvalidInput, req.QRCode)
	}

	bin := &models.Bin{
		QRCode:        req.QRCode,
		LocationName:  req.LocationName,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		CapacityKg:    req.CapacityKg,
		IsActive:      true,
		IsOperational: true,
	}

	if err := s.bins.Create(bin); err != nil {
		return nil, err
	}

	return bin, nil
}

// Update applies a partial update to an existing bin
func (s *BinService) Update(binID string, req models.UpdateBinRequest) (*models.Bin, error) {
	bin, err := s.bins.GetByID(binID)
	if err != nil {
		return nil, err
	}
	if bin == nil {
		return nil, fmt.Errorf("%w: bin", ErrNotFound)
	}

	if req.LocationName != nil {
		bin.LocationName = *req.LocationName
	}
	if req.Address != nil {
		bin.Address = *req.Address
	}
	if req.Latitude != nil {
		bin.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		bin.Longitude = *req.Longitude
	}
	if req.CapacityKg != nil {
		bin.CapacityKg = *req.CapacityKg
	}
	if req.IsActive != nil {
		bin.IsActive = *req.IsActive
	}
	if req.IsOperational != nil {
		bin.IsOperational = *req.IsOperational
	}

	if err := s.bins.Update(bin); err != nil {
		return nil, err
	}

	return bin, nil
}
