package services

import (
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

func newDropService(t *testing.T) (*DropService, *fakeUserStore, *fakeBinStore, *fakeDropStore) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	users := newFakeUserStore()
	bins := newFakeBinStore()
	drops := newFakeDropStore()
	svc := NewDropService(drops, users, bins, NewRewardService(), log)
	return svc, users, bins, drops
}

func TestSubmitDrop(t *testing.T) {
	svc, users, bins, _ := newDropService(t)
	users.put(&models.User{ID: "user-1", Email: "alice@example.com"})
	bins.put(&models.Bin{ID: "bin-1", QRCode: "ECO-001", IsActive: true, IsOperational: true})

	weight := 2.5
	drop, err := svc.Submit(SubmitDropInput{
		UserID:            "user-1",
		BinQRCode:         "ECO-001",
		DeviceTier:        models.DeviceTierLevel3,
		Description:       "old laptop",
		EstimatedWeightKg: &weight,
	})
	require.NoError(t, err)

	assert.Equal(t, models.DropStatusPending, drop.Status)
	assert.Equal(t, models.PaymentStatusPending, drop.PaymentStatus)
	assert.Equal(t, "bin-1", drop.BinID)
	assert.True(t, drop.EstimatedRewardADA.Equal(decimal.RequireFromString("1.5")))

	// Counters were bumped
	user, _ := users.GetByID("user-1")
	assert.Equal(t, 1, user.TotalDrops)
	bin, _ := bins.GetByID("bin-1")
	assert.Equal(t, 1, bin.TotalDrops)
	assert.Equal(t, 2.5, bin.CurrentWeightKg)
}

func TestSubmitDropUnknownBin(t *testing.T) {
	svc, users, _, _ := newDropService(t)
	users.put(&models.User{ID: "user-1"})

	_, err := svc.Submit(SubmitDropInput{
		UserID:     "user-1",
		BinQRCode:  "ECO-404",
		DeviceTier: models.DeviceTierLevel1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitDropInactiveBin(t *testing.T) {
	svc, users, bins, _ := newDropService(t)
	users.put(&models.User{ID: "user-1"})
	bins.put(&models.Bin{ID: "bin-1", QRCode: "ECO-001", IsActive: false, IsOperational: true})

	_, err := svc.Submit(SubmitDropInput{
		UserID:     "user-1",
		BinQRCode:  "ECO-001",
		DeviceTier: models.DeviceTierLevel1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitDropInvalidTier(t *testing.T) {
	svc, users, bins, _ := newDropService(t)
	users.put(&models.User{ID: "user-1"})
	bins.put(&models.Bin{ID: "bin-1", QRCode: "ECO-001", IsActive: true, IsOperational: true})

	_, err := svc.Submit(SubmitDropInput{
		UserID:     "user-1",
		BinQRCode:  "ECO-001",
		DeviceTier: models.DeviceTier("toaster"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
