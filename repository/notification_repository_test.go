package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ayoogunade/AyoZon/models"
	"github.com/ayoogunade/AyoZon/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestSaveLog_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormNotificationLogRepository(gormDB)

	entry := &models.NotificationLog{
		Recipient:  "buyer@example.com",
		Type:       models.TypeOrderConfirmation,
		OrderID:    "652f1c0a9b1e8a3f4c2d1e0b",
		Status:     models.StatusSent,
		Attachment: true,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notification_logs"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectCommit()

	err := repo.SaveLog(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLog_DatabaseError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormNotificationLogRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notification_logs"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SaveLog(context.Background(), &models.NotificationLog{
		Recipient: "buyer@example.com",
		Type:      models.TypeOrderPlaced,
		Status:    models.StatusFailed,
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
