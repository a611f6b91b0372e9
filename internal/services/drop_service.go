package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

// SubmitDropInput carries a validated drop submission
type SubmitDropInput struct {
	UserID            string
	BinQRCode         string
	DeviceTier        models.DeviceTier
	Description       string
	PhotoURL          string
	EstimatedWeightKg *float64
}

// DropService handles drop submission and listing
type DropService struct {
	drops   DropStore
	users   UserStore
	bins    BinStore
	rewards *RewardService
	log     *logrus.Logger
}

// NewDropService creates a new DropService
func NewDropService(drops DropStore, users UserStore, bins BinStore, rewards *RewardService, log *logrus.Logger) *DropService {
	return &DropService{
		drops:   drops,
		users:   users,
		bins:    bins,
		rewards: rewards,
		log:     log,
	}
}

// Submit validates a submission, computes the estimated reward and inserts a
// pending drop row
func (s *DropService) Submit(input SubmitDropInput) (*models.Drop, error) {
	if input.UserID == "" || input.BinQRCode == "" || input.DeviceTier == "" {
		return nil, fmt.Errorf("%w: user, bin and item type are required", ErrInvalidInput)
	}
	if !input.DeviceTier.Valid() {
		return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, input.DeviceTier)
	}

	user, err := s.users.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	bin, err := s.bins.GetByQRCode(input.BinQRCode)
	if err != nil {
		return nil, err
	}
	if bin == nil {
		return nil, fmt.Errorf("%w: bin", ErrNotFound)
	}
	if !bin.IsActive || !bin.IsOperational {
		return nil, fmt.Errorf("%w: bin %s is not accepting drops", ErrInvalidInput, bin.QRCode)
	}

	estimate, err := s.rewards.Estimate(input.DeviceTier)
	if err != nil {
		return nil, err
	}

	drop := &models.Drop{
		UserID:             user.ID,
		BinID:              bin.ID,
		DeviceTier:         input.DeviceTier,
		Description:        input.Description,
		PhotoURL:           input.PhotoURL,
		EstimatedWeightKg:  input.EstimatedWeightKg,
		EstimatedRewardADA: estimate,
	}

	if err := s.drops.Create(drop); err != nil {
		return nil, err
	}

	// Counter updates are bookkeeping; a failure there must not lose the drop
	var weight float64
	if input.EstimatedWeightKg != nil {
		weight = *input.EstimatedWeightKg
	}
	if err := s.bins.RecordDrop(bin.ID, weight); err != nil {
		s.log.WithError(err).WithField("bin_id", bin.ID).Warn("failed to update bin counters")
	}
	if err := s.users.IncrementDropCount(user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to update user drop count")
	}

	return drop, nil
}

// GetByID retrieves a drop by ID
func (s *DropService) GetByID(id string) (*models.Drop, error) {
	return s.drops.GetByID(id)
}

// List retrieves drops based on filter parameters
func (s *DropService) List(params models.DropParams) (*models.DropListResponse, error) {
	drops, total, err := s.drops.List(params)
	if err != nil {
		return nil, err
	}

	return &models.DropListResponse{
		Drops:      drops,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}, nil
}

// ListPending retrieves all drops awaiting review
func (s *DropService) ListPending() ([]models.Drop, error) {
	return s.drops.ListPending()
}
