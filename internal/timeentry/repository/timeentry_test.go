package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	"github.com/spitex-domus/domus-backend/internal/worktime"
	"github.com/spitex-domus/domus-backend/pkg/database"
	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/logger"
	"github.com/spitex-domus/domus-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryColumns = []string{
	"id", "employee_id", "entry_date", "start_time", "end_time",
	"break_minutes", "entry_type", "sleep_interruption_minutes", "surcharge_hours",
	"created_at", "updated_at",
}

func newRepo(t *testing.T) (*repository.TimeEntryRepository, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	repo := repository.NewTimeEntryRepository(database.NewWithDB(mockDB.DB, log))
	return repo, mockDB
}

func TestTimeEntryRepository_Create(t *testing.T) {
	repo, mockDB := newRepo(t)
	defer mockDB.Close()

	now := time.Now()
	entry := &repository.TimeEntry{
		EmployeeID: "emp-1",
		EntryDate:  time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:  time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		EntryType:  string(worktime.EntryWork),
	}

	mockDB.ExpectQuery("INSERT INTO time_entries").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").AddRow(now, now))

	err := repo.Create(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID, "create must assign an ID when none is given")
	assert.Equal(t, now, entry.CreatedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestTimeEntryRepository_GetByID(t *testing.T) {
	repo, mockDB := newRepo(t)
	defer mockDB.Close()

	t.Run("returns entry", func(t *testing.T) {
		now := time.Now()
		end := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
		mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
			WithArgs("entry-1").
			WillReturnRows(testutil.MockRows(entryColumns...).AddRow(
				"entry-1", "emp-1",
				time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), &end,
				30, "WORK", 0, 0.0, now, now,
			))

		entry, err := repo.GetByID(context.Background(), "entry-1")
		require.NoError(t, err)
		assert.Equal(t, "emp-1", entry.EmployeeID)
		assert.Equal(t, 30, entry.BreakMinutes)
		require.NotNil(t, entry.EndTime)
	})

	t.Run("not found", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
			WithArgs("missing").
			WillReturnRows(testutil.MockRows(entryColumns...))

		_, err := repo.GetByID(context.Background(), "missing")
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})

	mockDB.ExpectationsWereMet(t)
}

func TestTimeEntryRepository_GetOpenEntry(t *testing.T) {
	repo, mockDB := newRepo(t)
	defer mockDB.Close()

	t.Run("no open entry returns nil without error", func(t *testing.T) {
		mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
			WithArgs("emp-1").
			WillReturnRows(testutil.MockRows(entryColumns...))

		entry, err := repo.GetOpenEntry(context.Background(), "emp-1")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("returns running entry", func(t *testing.T) {
		now := time.Now()
		mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
			WithArgs("emp-1").
			WillReturnRows(testutil.MockRows(entryColumns...).AddRow(
				"entry-9", "emp-1",
				time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), nil,
				0, "WORK", 0, 0.0, now, now,
			))

		entry, err := repo.GetOpenEntry(context.Background(), "emp-1")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Nil(t, entry.EndTime)
	})

	mockDB.ExpectationsWereMet(t)
}

func TestTimeEntryRepository_Update(t *testing.T) {
	repo, mockDB := newRepo(t)
	defer mockDB.Close()

	entry := &repository.TimeEntry{
		ID:        "entry-1",
		EntryDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
		EntryType: string(worktime.EntryWork),
	}

	t.Run("updates existing row", func(t *testing.T) {
		mockDB.ExpectExec("UPDATE time_entries SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), entry)
		assert.NoError(t, err)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		mockDB.ExpectExec("UPDATE time_entries SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), entry)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})

	mockDB.ExpectationsWereMet(t)
}

func TestTimeEntryRepository_DeleteMany(t *testing.T) {
	repo, mockDB := newRepo(t)
	defer mockDB.Close()

	t.Run("deletes all components in one transaction", func(t *testing.T) {
		mockDB.ExpectBegin()
		mockDB.ExpectExec("DELETE FROM time_entries WHERE id IN").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mockDB.ExpectCommit()

		err := repo.DeleteMany(context.Background(), []string{"a", "b", "c"})
		assert.NoError(t, err)
	})

	t.Run("rolls back when nothing matched", func(t *testing.T) {
		mockDB.ExpectBegin()
		mockDB.ExpectExec("DELETE FROM time_entries WHERE id IN").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mockDB.ExpectRollback()

		err := repo.DeleteMany(context.Background(), []string{"a"})
		assert.True(t, errors.Is(err, errors.ErrNotFound))
	})

	t.Run("empty set is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.DeleteMany(context.Background(), nil))
	})

	mockDB.ExpectationsWereMet(t)
}

func TestTimeEntryRepository_ListForEmployeeMonth(t *testing.T) {
	repo, mockDB := newRepo(t)
	defer mockDB.Close()

	now := time.Now()
	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WithArgs("emp-1",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		).
		WillReturnRows(testutil.MockRows(entryColumns...).AddRow(
			"entry-1", "emp-1",
			time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), nil,
			0, "WORK", 0, 0.0, now, now,
		))

	entries, err := repo.ListForEmployeeMonth(context.Background(), "emp-1", 2024, time.March)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "entry-1", entries[0].ID)

	mockDB.ExpectationsWereMet(t)
}
