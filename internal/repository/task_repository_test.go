package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/hmuro/productivity-tracker/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db, mock
}

// The status change must be a single conditional UPDATE keyed on the
// expected current status, so concurrent changes to the same task
// cannot interleave.
func TestUpdateStatusIsConditional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	completedAt := time.Now()
	mock.ExpectExec("UPDATE `tasks` SET").
		WithArgs(sqlmock.AnyArg(), models.TaskStatusCompleted, sqlmock.AnyArg(), uint64(42), models.TaskStatusInProgress).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := repo.UpdateStatus(42, models.TaskStatusInProgress, models.TaskStatusCompleted, &completedAt)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusReportsNoChange(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec("UPDATE `tasks` SET").
		WithArgs(models.TaskStatusCancelled, sqlmock.AnyArg(), uint64(42), models.TaskStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.UpdateStatus(42, models.TaskStatusPending, models.TaskStatusCancelled, nil)
	require.NoError(t, err)
	require.False(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The counter increment is expressed in SQL rather than read-modify-
// write so concurrent completions by different tasks cannot lose
// updates.
func TestIncrementTasksCompletedUsesExpression(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE `users` SET `tasks_completed`=tasks_completed \\+").
		WithArgs(1, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementTasksCompleted(7))
	require.NoError(t, mock.ExpectationsWereMet())
}
