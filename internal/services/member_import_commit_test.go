package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trainingorg/quizdesk/internal/logging"
	"trainingorg/quizdesk/internal/models/dtos"
)

// setupMockPostgres opens gorm over sqlmock with the postgres dialect.
func setupMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}
	return db, mock
}

func TestImportMembers_CommitFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logging.SetLogger(zap.New(core))
	t.Cleanup(func() { logging.SetLogger(zap.NewNop()) })

	db, mock := setupMockPostgres(t)
	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT import_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "members"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`RELEASE SAVEPOINT import_row`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset by peer"))

	svc := NewMemberImportService(db, false, nil)
	result, err := svc.ImportMembers(context.Background(), ImportRequest{
		Records: []dtos.MemberRecord{{MemberID: "SH1", Name: "Alice", ClassesCount: "3"}},
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to commit member import")
	assert.Zero(t, logs.FilterMessage("Rollback after failed commit also failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Member import finished").Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}
