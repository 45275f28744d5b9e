package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timetrack-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_UpsertKeepsPasswordHash(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created, err := repo.Upsert(ctx, user.User{Email: "Admin@Example.com", Role: user.RoleAdmin, PasswordHash: strPtr("hash-1")})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", created.Email)

	updated, err := repo.Upsert(ctx, user.User{Email: "admin@example.com", Name: strPtr("Root"), Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	require.NotNil(t, updated.PasswordHash)
	assert.Equal(t, "hash-1", *updated.PasswordHash)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_DeleteOnlyPersonnel(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	_, err := repo.Upsert(ctx, user.User{Email: "staff@example.com", Role: user.RolePersonal, DeviceID: strPtr("dev-1")})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, user.User{Email: "boss@example.com", Role: user.RoleAdmin, DeviceID: strPtr("dev-2")})
	require.NoError(t, err)

	n, err := repo.DeleteByEmailOrDevice(ctx, "", "dev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteByEmailOrDevice(ctx, "boss@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestReportRepository_OneOpenReportPerDay(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewReportRepository(db)

	open := report.Report{Date: "2025-04-02", DeviceID: "dev-1", Status: report.StatusWork, StartTime: strPtr("08:00"), IsOpen: true}
	first, err := repo.Create(ctx, open)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = repo.Create(ctx, open)
	assert.ErrorIs(t, err, report.ErrReportAlreadyOpen)

	got, err := repo.GetOpenByDeviceAndDate(ctx, "dev-1", "2025-04-02")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestReportRepository_TransactionRollsBack(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewReportRepository(db)
	tx := postgresql.NewTransactor(db)

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, report.Report{Date: "2025-04-03", DeviceID: "dev-1", Status: report.StatusOff}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	exists, err := repo.ExistsForDeviceAndDate(ctx, "dev-1", "2025-04-03", "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHolidayRepository_DuplicateDate(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewHolidayRepository(db)

	_, err := repo.Create(ctx, holiday.Holiday{Date: "2025-12-25", Note: strPtr("Weihnachten")})
	require.NoError(t, err)
	_, err = repo.Create(ctx, holiday.Holiday{Date: "2025-12-25"})
	assert.ErrorIs(t, err, holiday.ErrHolidayExists)

	blocked, err := repo.ExistsOnDate(ctx, "2025-12-25")
	require.NoError(t, err)
	assert.True(t, blocked)

	list, err := repo.List(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-12-25", list[0].Date)
}

func TestReportRepository_ExistsFiltersByStatus(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	repo := postgresql.NewReportRepository(db)

	_, err := repo.Create(ctx, report.Report{Date: "2025-04-07", DeviceID: "dev-1", Status: report.StatusOff})
	require.NoError(t, err)

	anyStatus, err := repo.ExistsForDeviceAndDate(ctx, "dev-1", "2025-04-07", "")
	require.NoError(t, err)
	assert.True(t, anyStatus)

	onLeave, err := repo.ExistsForDeviceAndDate(ctx, "dev-1", "2025-04-07", report.StatusLeave)
	require.NoError(t, err)
	assert.False(t, onLeave)

	off, err := repo.ExistsForDeviceAndDate(ctx, "dev-1", "2025-04-07", report.StatusOff)
	require.NoError(t, err)
	assert.True(t, off)
}
