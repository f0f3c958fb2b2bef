package mysql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

func newMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return &Storage{db: db}, mock
}

var day = storage.NewDate(2024, 6, 17)

func TestMapErr(t *testing.T) {
	assert.ErrorIs(t, mapErr(sql.ErrNoRows), storage.ErrNotFound)
	assert.ErrorIs(t, mapErr(&mysql.MySQLError{Number: 1452, Message: "fk"}), storage.ErrNotFound)

	other := &mysql.MySQLError{Number: 1062, Message: "duplicate"}
	assert.Equal(t, other, mapErr(other))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestSplitStatements(t *testing.T) {
	script := `-- комментарий
CREATE TABLE a (
    id INT
);

INSERT INTO a VALUES (1),
    (2);
SELECT 1`

	stmts := splitStatements(script)

	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "CREATE TABLE a")
	assert.NotContains(t, stmts[0], ";")
	assert.Contains(t, stmts[1], "(2)")
	assert.Equal(t, "SELECT 1", stmts[2])
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	require.NoError(t, err)
	assert.Len(t, splitStatements(string(body)), 10)

	body, err = migrationsFS.ReadFile("migrations/002_seed.sql")
	require.NoError(t, err)
	assert.Len(t, splitStatements(string(body)), 6)
}

func TestGetGroup(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM production_groups WHERE id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "default_cells", "rate", "display_order", "is_active"}).
			AddRow(int64(2), "GROUP 2 (GANESH)", int64(6), "8.00", int64(2), int64(1)))

	g, err := s.GetGroup(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, storage.ProductionGroup{
		ID: 2, Name: "GROUP 2 (GANESH)", DefaultCells: 6, RatePerCellPerHour: 8, DisplayOrder: 2, IsActive: true,
	}, *g)
}

func TestGetGroup_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM production_groups WHERE id = ?")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetGroup(context.Background(), 99)

	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpsertEntries_Commit(t *testing.T) {
	s, mock := newMock(t)
	reason := int64(3)

	entries := []storage.ProductionEntry{
		{ProductionDate: day, GroupID: 1, SlotNumber: 1, CellsOperative: 4, ManpowerHeadcount: 8, ActualOutput: 40,
			TargetOutput: 42, EffectiveMinutes: 105, DeficitReasonID: &reason, DowntimeCategory: storage.DowntimeNone},
		{ProductionDate: day, GroupID: 1, SlotNumber: 2, CellsOperative: 4, ActualOutput: 48,
			TargetOutput: 48, EffectiveMinutes: 120, DowntimeCategory: storage.DowntimeNone},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO production_entries"))
	prep.ExpectExec().
		WithArgs("2024-06-17", int64(1), int64(1), int64(4), int64(8), int64(40), 42.0, 105.0, int64(3), nil, 0.0, "none", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().
		WithArgs("2024-06-17", int64(1), int64(2), int64(4), int64(0), int64(48), 48.0, 120.0, nil, nil, 0.0, "none", nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpsertEntries(context.Background(), entries))
}

func TestUpsertEntries_RollbackOnForeignKey(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO production_entries")).
		ExpectExec().
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key"})
	mock.ExpectRollback()

	err := s.UpsertEntries(context.Background(), []storage.ProductionEntry{
		{ProductionDate: day, GroupID: 77, SlotNumber: 1, DowntimeCategory: storage.DowntimeNone},
	})

	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetEntries_ScansNullables(t *testing.T) {
	s, mock := newMock(t)

	cols := []string{"id", "production_date", "group_id", "slot_number", "cells_operative", "manpower_headcount",
		"actual_output", "target_output", "effective_minutes", "deficit_reason_id", "deficit_reason_other",
		"downtime_minutes", "downtime_category", "downtime_reason", "reason_text"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM production_entries pe")).
		WithArgs("2024-06-17", int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(10), "2024-06-17", int64(1), int64(1), int64(4), int64(8), int64(40), "42.00", "105.00",
				int64(2), "glue", "5.00", "mechanical", "ремень", "Foam Shortage").
			AddRow(int64(11), "2024-06-17", int64(1), int64(2), int64(4), int64(8), int64(48), "48.00", "120.00",
				nil, nil, "0.00", "none", nil, nil))

	entries, err := s.GetEntries(context.Background(), day, 1)

	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, day, entries[0].ProductionDate)
	require.NotNil(t, entries[0].DeficitReasonID)
	assert.Equal(t, int64(2), *entries[0].DeficitReasonID)
	assert.Equal(t, "Foam Shortage", *entries[0].ReasonText)
	assert.Equal(t, storage.DowntimeMechanical, entries[0].DowntimeCategory)
	assert.Equal(t, 5.0, entries[0].DowntimeMinutes)

	assert.Nil(t, entries[1].DeficitReasonID)
	assert.Nil(t, entries[1].DeficitReasonOther)
	assert.Nil(t, entries[1].ReasonText)
}

func TestDeleteEntry_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM production_entries WHERE id = ?")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, s.DeleteEntry(context.Background(), 5), storage.ErrNotFound)
}

func TestUpsertSummary(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO daily_summaries")).
		WithArgs("2024-06-17", int64(2), 80.0, int64(83), 0.0, 3.0, 5.0, 44.0, 11.0, 1.89).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.UpsertSummary(context.Background(), storage.DailySummary{
		ProductionDate: day, GroupID: 2, TotalTarget: 80, TotalActual: 83, TotalExcess: 3,
		TotalDowntimeMinutes: 5, TotalManHours: 44, TotalManpowerAvg: 11, SeatsPerPerson: 1.89,
	})

	require.NoError(t, err)
}

func TestGetDefaultBreaks_GroupFilter(t *testing.T) {
	s, mock := newMock(t)
	gid := int64(3)

	cols := []string{"id", "break_type", "label", "is_default", "day_type", "production_date", "group_id", "start_time", "end_time"}

	mock.ExpectQuery(regexp.QuoteMeta("AND (group_id IS NULL OR group_id = ?)")).
		WithArgs("sat", int64(3)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "lunch", "Lunch Break", int64(1), "sat", nil, nil, "12:30:00", "13:00:00").
			AddRow(int64(7), "tea", "", int64(1), "all", nil, int64(3), "10:00:00", "10:15:00"))

	breaks, err := s.GetDefaultBreaks(context.Background(), storage.DaySat, &gid)

	require.NoError(t, err)
	require.Len(t, breaks, 2)
	assert.Equal(t, storage.BreakLunch, breaks[0].BreakType)
	assert.Equal(t, clock.MustParse("12:30"), breaks[0].Start)
	assert.Nil(t, breaks[0].GroupID)
	assert.True(t, breaks[0].IsDefault)
	require.NotNil(t, breaks[1].GroupID)
	assert.Equal(t, int64(3), *breaks[1].GroupID)
}

func TestGetDateBreaks_NoGroupOnlyShared(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE production_date = ? AND group_id IS NULL")).
		WithArgs("2024-06-17").
		WillReturnRows(sqlmock.NewRows([]string{"id", "break_type", "label", "is_default", "day_type",
			"production_date", "group_id", "start_time", "end_time"}))

	breaks, err := s.GetDateBreaks(context.Background(), day, nil)

	require.NoError(t, err)
	assert.Empty(t, breaks)
}

func TestGetShiftOverride(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_shift_config")).
		WithArgs("2024-06-17").
		WillReturnRows(sqlmock.NewRows([]string{"shift_start", "shift_end", "notes"}).
			AddRow("09:00:00", "18:00:00", "ревизия"))

	w, err := s.GetShiftOverride(context.Background(), day)

	require.NoError(t, err)
	assert.True(t, w.IsOverride)
	assert.Equal(t, clock.MustParse("09:00"), w.Start)
	assert.Equal(t, "ревизия", w.Notes)
}

func TestGetDefaultShift(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM settings WHERE setting_key IN (?, ?)")).
		WithArgs("default_shift_start_sat", "default_shift_end_sat").
		WillReturnRows(sqlmock.NewRows([]string{"setting_key", "setting_value"}).
			AddRow("default_shift_start_sat", "07:00").
			AddRow("default_shift_end_sat", "15:30"))

	w, err := s.GetDefaultShift(context.Background(), storage.DaySat)

	require.NoError(t, err)
	assert.Equal(t, clock.MustParse("07:00"), w.Start)
	assert.Equal(t, clock.MustParse("15:30"), w.End)
}

func TestGetDefaultShift_Missing(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM settings")).
		WillReturnRows(sqlmock.NewRows([]string{"setting_key", "setting_value"}).
			AddRow("default_shift_start_sun_fri", "08:30"))

	_, err := s.GetDefaultShift(context.Background(), storage.DaySunFri)

	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReplaceSlotOverrides(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_time_slots WHERE production_date = ?")).
		WithArgs("2024-06-17").
		WillReturnResult(sqlmock.NewResult(0, 6))
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO daily_time_slots"))
	prep.ExpectExec().
		WithArgs("2024-06-17", int64(1), "09:00:00", "12:00:00", "Утро").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.ReplaceSlotOverrides(context.Background(), day, []storage.TimeSlot{
		{SlotNumber: 1, Start: clock.MustParse("09:00"), End: clock.MustParse("12:00"), Label: "Утро"},
	})

	require.NoError(t, err)
}

func TestInsertDowntime_UnknownGroup(t *testing.T) {
	s, mock := newMock(t)
	end := clock.MustParse("10:30")
	dur := 30.0

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO downtimes")).
		WithArgs("2024-06-17", int64(9), "10:00:00", "10:30:00", 30.0, "", "other").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "fk"})

	_, err := s.InsertDowntime(context.Background(), storage.DowntimeEvent{
		ProductionDate: day, GroupID: 9, Start: clock.MustParse("10:00"), End: &end,
		DurationMinutes: &dur, Category: storage.DowntimeOther,
	})

	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListDowntimes_OpenEvent(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM downtimes d")).
		WithArgs("2024-06-17", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "production_date", "group_id", "start_time", "end_time",
			"duration_minutes", "reason", "category", "name"}).
			AddRow(int64(1), "2024-06-17", int64(1), "10:00:00", nil, nil, "", "electrical", "GROUP 1"))

	events, err := s.ListDowntimes(context.Background(), day, 1)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].End)
	assert.Nil(t, events[0].DurationMinutes)
	assert.Equal(t, "GROUP 1", events[0].GroupName)
}

func TestDeficitByReason_NoReasonRow(t *testing.T) {
	s, mock := newMock(t)
	f := storage.ReportFilter{From: storage.NewDate(2024, 6, 1), To: storage.NewDate(2024, 6, 30), GroupID: 2}

	mock.ExpectQuery(regexp.QuoteMeta("pe.actual_output < pe.target_output AND pe.production_date BETWEEN ? AND ? AND pe.group_id = ?")).
		WithArgs("2024-06-01", "2024-06-30", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "cnt", "deficit"}).
			AddRow(int64(1), "Cover Shortage", int64(4), int64(60)).
			AddRow(nil, "", int64(1), int64(10)))

	rows, err := s.DeficitByReason(context.Background(), f)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 60, rows[0].TotalDeficit)
	assert.Nil(t, rows[1].ReasonID)
}

func TestDowntimeLog_SortWhitelist(t *testing.T) {
	s, mock := newMock(t)
	f := storage.ReportFilter{From: storage.NewDate(2024, 6, 1), To: storage.NewDate(2024, 6, 30)}

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY d.production_date DESC, d.start_time ASC")).
		WithArgs("2024-06-01", "2024-06-30").
		WillReturnRows(sqlmock.NewRows([]string{"id", "production_date", "group_id", "start_time", "end_time",
			"duration_minutes", "reason", "category", "name"}))

	_, err := s.DowntimeLog(context.Background(), f, storage.DowntimeSort("id; DROP TABLE downtimes"), false)

	require.NoError(t, err)
}

func TestDailyTotals_Error(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_summaries ds")).
		WillReturnError(errors.New("connection reset"))

	_, err := s.DailyTotals(context.Background(), storage.ReportFilter{From: day, To: day})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.mysql.DailyTotals")
}
