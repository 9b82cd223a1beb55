package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/applyforge/applyforge-backend/internal/apperrors"
	"github.com/applyforge/applyforge-backend/internal/models"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewStore(db), mock
}

func TestDeactivateApplications(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "job_applications" SET "is_active"`).
		WithArgs(false, sqlmock.AnyArg(), uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := store.DeactivateApplications(context.Background(), 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationByID_NotFoundMapped(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM "job_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.ApplicationByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileByUserID_NotFoundMapped(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM "candidate_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.ProfileByUserID(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileByUserID_LoadsApplicationsInOrder(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM "candidate_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "user-1"))
	mock.ExpectQuery(`SELECT (.+) FROM "job_applications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_id", "name", "is_active"}).
			AddRow(10, 1, "First", false).
			AddRow(11, 1, "Second", true))

	profile, err := store.ProfileByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	require.Len(t, profile.Applications, 2)
	assert.Equal(t, "First", profile.Applications[0].Name)
	assert.True(t, profile.Applications[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveApplication_UpdatesExistingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "job_applications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app := &models.JobApplication{ID: 5, ProfileID: 1, DesiredPosition: "Backend Dev"}
	err := store.SaveApplication(context.Background(), app)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
