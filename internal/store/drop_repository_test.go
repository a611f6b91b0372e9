package store

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecodrop/ecodrop-api/internal/models"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &Database{db: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func TestDropRepositoryReviewClaimsPendingRow(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewDropRepository(db)

	reward := decimal.RequireFromString("1.5")
	weight := 2.4
	mock.ExpectExec("UPDATE drops SET status").
		WithArgs(string(models.DropStatusApproved), sqlmock.AnyArg(), weight, "looks good",
			sqlmock.AnyArg(), "drop-1", string(models.DropStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.Review("drop-1", models.DropStatusApproved, &reward, &weight, "looks good")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropRepositoryReviewLosesRace(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewDropRepository(db)

	// Another review already moved the row out of pending: zero rows affected
	mock.ExpectExec("UPDATE drops SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.Review("drop-1", models.DropStatusRejected, nil, nil, "")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropRepositoryMarkPaidIsConditional(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewDropRepository(db)

	mock.ExpectExec("UPDATE drops SET payment_status").
		WithArgs(string(models.PaymentStatusCompleted), "txhash123", nil,
			sqlmock.AnyArg(), "drop-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.MarkPaid("drop-1", "txhash123", nil)
	require.NoError(t, err)
	assert.True(t, updated)

	// A second MarkPaid for the same drop matches no row
	mock.ExpectExec("UPDATE drops SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err = repo.MarkPaid("drop-1", "txhash456", nil)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropRepositoryCompleteDeferredIsTransactional(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewDropRepository(db)

	// Drop completion and the pending-reward settlement commit together
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE drops SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CompleteDeferred("user-1", []string{"drop-1", "drop-2"}, "txhash123",
		decimal.RequireFromString("4.0"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropRepositoryCompleteDeferredRollsBack(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewDropRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE drops SET payment_status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CompleteDeferred("user-1", []string{"drop-1"}, "txhash123",
		decimal.NewFromInt(2))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewDropRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM drops WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	drop, err := repo.GetByID("missing")
	require.NoError(t, err)
	assert.Nil(t, drop)
	assert.NoError(t, mock.ExpectationsWereMet())
}
