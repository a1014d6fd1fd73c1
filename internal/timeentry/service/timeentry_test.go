package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	balancerepo "github.com/spitex-domus/domus-backend/internal/balance/repository"
	balanceservice "github.com/spitex-domus/domus-backend/internal/balance/service"
	employeerepo "github.com/spitex-domus/domus-backend/internal/employee/repository"
	schedulerepo "github.com/spitex-domus/domus-backend/internal/schedule/repository"
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

// The injected clock pins "today" to Sunday, 2024-03-10.
func newService(t *testing.T) (*TimeEntryService, *testutil.MockDB) {
	mockDB := testutil.NewMockDB(t)
	log := logger.New("test", "test")
	db := database.NewWithDB(mockDB.DB, log)

	repo := repository.NewTimeEntryRepository(db)
	balances := balanceservice.NewBalanceService(
		balancerepo.NewBalanceRepository(db),
		balancerepo.NewVacationRepository(db),
		employeerepo.NewEmployeeRepository(db),
		repo,
		schedulerepo.NewScheduleRepository(db),
		log,
	)

	svc := NewTimeEntryService(repo, balances, log)
	svc.now = func() time.Time {
		return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, mockDB
}

func expectEmployeeExists(mockDB *testutil.MockDB) {
	mockDB.ExpectQuery("SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)").
		WithArgs("emp-1").
		WillReturnRows(testutil.MockRows("exists").AddRow(true))
}

func date(day int) time.Time {
	return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
}

func clock(day, hour, min int) time.Time {
	return time.Date(2024, time.March, day, hour, min, 0, 0, time.UTC)
}

func TestTimeEntryService_Create_DateLocked(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	expectEmployeeExists(mockDB)

	end := clock(1, 12, 0)
	entry := &repository.TimeEntry{
		EmployeeID: "emp-1",
		EntryDate:  date(1), // more than two days before "today"
		StartTime:  clock(1, 8, 0),
		EndTime:    &end,
		EntryType:  string(worktime.EntryWork),
	}

	_, err := svc.Create(context.Background(), entry, false)
	assert.True(t, errors.Is(err, errors.ErrDateLocked))

	// The same write succeeds the guard for admins (and then proceeds
	// to the overlap scan).
	expectEmployeeExists(mockDB)
	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WillReturnRows(testutil.MockRows(entryColumns...))
	mockDB.ExpectQuery("INSERT INTO time_entries").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").
			AddRow(time.Now(), time.Now()))

	_, err = svc.Create(context.Background(), entry, true)
	assert.NoError(t, err)
}

func TestTimeEntryService_Create_NegativeWorkTime(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	expectEmployeeExists(mockDB)

	end := clock(10, 8, 0)
	entry := &repository.TimeEntry{
		EmployeeID: "emp-1",
		EntryDate:  date(10),
		StartTime:  clock(10, 12, 0),
		EndTime:    &end,
		EntryType:  string(worktime.EntryWork),
	}

	_, err := svc.Create(context.Background(), entry, false)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestTimeEntryService_Create_BlockTooLong(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	expectEmployeeExists(mockDB)

	end := clock(10, 15, 1)
	entry := &repository.TimeEntry{
		EmployeeID: "emp-1",
		EntryDate:  date(10),
		StartTime:  clock(10, 9, 0),
		EndTime:    &end,
		EntryType:  string(worktime.EntryWork),
	}

	_, err := svc.Create(context.Background(), entry, false)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestTimeEntryService_Create_Overlap(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	expectEmployeeExists(mockDB)

	now := time.Now()
	existingEnd := clock(10, 12, 0)
	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WillReturnRows(testutil.MockRows(entryColumns...).AddRow(
			"other", "emp-1", date(10), clock(10, 9, 0), &existingEnd,
			0, "WORK", 0, 0.0, now, now,
		))

	end := clock(10, 13, 0)
	entry := &repository.TimeEntry{
		EmployeeID: "emp-1",
		EntryDate:  date(10),
		StartTime:  clock(10, 11, 0),
		EndTime:    &end,
		EntryType:  string(worktime.EntryWork),
	}

	_, err := svc.Create(context.Background(), entry, false)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestTimeEntryService_Create_SecondOpenEntryRejected(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	expectEmployeeExists(mockDB)

	now := time.Now()
	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WithArgs("emp-1").
		WillReturnRows(testutil.MockRows(entryColumns...).AddRow(
			"running", "emp-1", date(10), clock(10, 8, 0), nil,
			0, "WORK", 0, 0.0, now, now,
		))

	entry := &repository.TimeEntry{
		EmployeeID: "emp-1",
		EntryDate:  date(10),
		StartTime:  clock(10, 14, 0),
		EntryType:  string(worktime.EntryWork),
	}

	_, err := svc.Create(context.Background(), entry, false)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestTimeEntryService_Create_SundaySurcharge(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	expectEmployeeExists(mockDB)

	// 2024-03-10 is a Sunday: the worked hours earn a 100% surcharge.
	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WillReturnRows(testutil.MockRows(entryColumns...))
	mockDB.ExpectQuery("INSERT INTO time_entries").
		WillReturnRows(testutil.MockRows("created_at", "updated_at").
			AddRow(time.Now(), time.Now()))

	end := clock(10, 12, 30)
	entry := &repository.TimeEntry{
		EmployeeID:   "emp-1",
		EntryDate:    date(10),
		StartTime:    clock(10, 8, 0),
		EndTime:      &end,
		BreakMinutes: 30,
		EntryType:    string(worktime.EntryWork),
	}

	created, err := svc.Create(context.Background(), entry, false)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, created.SurchargeHours, 1e-9)
}

func TestTimeEntryService_Delete_NightShiftCascade(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	now := time.Now()
	eveningEnd := clock(4, 23, 0)
	sleepEnd := clock(5, 6, 0)
	carryEnd := clock(5, 8, 0)

	// The clicked entry is the evening half of a unified night shift.
	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WithArgs("evening").
		WillReturnRows(testutil.MockRows(entryColumns...).AddRow(
			"evening", "emp-1", date(4), clock(4, 19, 0), &eveningEnd,
			0, "WORK", 0, 0.0, now, now,
		))

	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WithArgs("emp-1", date(3), date(6)).
		WillReturnRows(testutil.MockRows(entryColumns...).
			AddRow("evening", "emp-1", date(4), clock(4, 19, 0), &eveningEnd,
				0, "WORK", 0, 0.0, now, now).
			AddRow("sleep", "emp-1", date(4), clock(4, 23, 1), &sleepEnd,
				0, "SLEEP", 0, 0.0, now, now).
			AddRow("carry", "emp-1", date(4), clock(5, 6, 1), &carryEnd,
				0, "WORK", 0, 0.0, now, now))

	mockDB.ExpectBegin()
	mockDB.ExpectExec("DELETE FROM time_entries WHERE id IN").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mockDB.ExpectCommit()

	deleted, err := svc.Delete(context.Background(), "evening", true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"evening", "sleep", "carry"}, deleted)
}

func TestTimeEntryService_Delete_PlainEntry(t *testing.T) {
	svc, mockDB := newService(t)
	defer mockDB.Close()

	now := time.Now()
	end := clock(10, 12, 0)
	mockDB.ExpectQuery("SELECT id, employee_id, entry_date").
		WithArgs("plain").
		WillReturnRows(testutil.MockRows(entryColumns...).AddRow(
			"plain", "emp-1", date(10), clock(10, 8, 0), &end,
			0, "WORK", 0, 0.0, now, now,
		))
	mockDB.ExpectExec("DELETE FROM time_entries WHERE id = $1").
		WithArgs("plain").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := svc.Delete(context.Background(), "plain", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"plain"}, deleted)
}
