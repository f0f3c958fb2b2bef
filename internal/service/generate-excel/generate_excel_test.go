package generate_excel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"line-tracker/internal/service/report"
	"line-tracker/internal/storage"
)

type MockReports struct {
	mock.Mock
}

func (m *MockReports) Weekly(ctx context.Context, weekOf storage.Date, groupID int64) (*report.WeeklyReport, error) {
	args := m.Called(ctx, weekOf, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.WeeklyReport), args.Error(1)
}

func (m *MockReports) Monthly(ctx context.Context, year, month int, groupID int64) (*report.MonthlyReport, error) {
	args := m.Called(ctx, year, month, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.MonthlyReport), args.Error(1)
}

func (m *MockReports) LineComparison(ctx context.Context, from, to storage.Date) (*report.LineComparison, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.LineComparison), args.Error(1)
}

func (m *MockReports) Manpower(ctx context.Context, f storage.ReportFilter) (*report.ManpowerReport, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.ManpowerReport), args.Error(1)
}

func (m *MockReports) Deficit(ctx context.Context, f storage.ReportFilter) (*report.DeficitReport, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DeficitReport), args.Error(1)
}

func (m *MockReports) Downtime(ctx context.Context, f storage.ReportFilter, sort storage.DowntimeSort, asc bool) (*report.DowntimeReport, error) {
	args := m.Called(ctx, f, sort, asc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.DowntimeReport), args.Error(1)
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateExcel_Monthly(t *testing.T) {
	src := new(MockReports)
	src.On("Monthly", mock.Anything, 2024, 6, int64(0)).Return(&report.MonthlyReport{
		Year: 2024, Month: 6,
		Days: []report.DayRow{
			{Date: storage.NewDate(2024, 6, 3), Weekday: "Monday", Target: 300, Actual: 290, Variance: -10, HasData: true},
		},
		Totals: report.Totals{Target: 300, Actual: 290, Variance: -10},
	}, nil)

	data, name, err := NewGenerateService(src).GenerateExcel(context.Background(), Request{Kind: KindMonthly, Year: 2024, Month: 6})

	require.NoError(t, err)
	assert.Equal(t, "report_monthly_2024-06.xlsx", name)

	f := open(t, data)
	assert.Equal(t, []string{"Месяц"}, f.GetSheetList())

	v, err := f.GetCellValue("Месяц", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Дата", v)

	v, _ = f.GetCellValue("Месяц", "A2")
	assert.Equal(t, "2024-06-03", v)
	v, _ = f.GetCellValue("Месяц", "D2")
	assert.Equal(t, "290", v)
	v, _ = f.GetCellValue("Месяц", "A3")
	assert.Equal(t, "Итого", v)
}

func TestGenerateExcel_WeeklyMarksEmptyDays(t *testing.T) {
	src := new(MockReports)
	day := storage.NewDate(2024, 6, 19)
	src.On("Weekly", mock.Anything, day, int64(2)).Return(&report.WeeklyReport{
		WeekStart: storage.NewDate(2024, 6, 17),
		Days: []report.DayRow{
			{Date: storage.NewDate(2024, 6, 17), Weekday: "Monday"},
		},
	}, nil)

	data, name, err := NewGenerateService(src).GenerateExcel(context.Background(), Request{
		Kind:   KindWeekly,
		Filter: storage.ReportFilter{From: day, GroupID: 2},
	})

	require.NoError(t, err)
	assert.Equal(t, "report_weekly_2024-06-17.xlsx", name)

	f := open(t, data)
	v, _ := f.GetCellValue("Неделя", "C2")
	assert.Equal(t, "-", v)
}

func TestGenerateExcel_Deficit(t *testing.T) {
	src := new(MockReports)
	flt := storage.ReportFilter{From: storage.NewDate(2024, 6, 1), To: storage.NewDate(2024, 6, 30)}
	src.On("Deficit", mock.Anything, flt).Return(&report.DeficitReport{
		Reasons: []report.ReasonRow{
			{DeficitByReason: storage.DeficitByReason{ReasonText: "Foam Shortage", TotalDeficit: 40, Occurrences: 3}, Rank: 1, Pct: 100, CumPct: 100},
		},
		TotalDeficit: 40,
	}, nil)

	data, name, err := NewGenerateService(src).GenerateExcel(context.Background(), Request{Kind: KindDeficit, Filter: flt})

	require.NoError(t, err)
	assert.Equal(t, "report_deficit_2024-06-01_2024-06-30.xlsx", name)

	f := open(t, data)
	v, _ := f.GetCellValue("Причины недовыполнения", "B2")
	assert.Equal(t, "Foam Shortage", v)
}

func TestGenerateExcel_UnknownKind(t *testing.T) {
	_, _, err := NewGenerateService(new(MockReports)).GenerateExcel(context.Background(), Request{Kind: "yearly"})

	require.ErrorIs(t, err, storage.ErrInvalidInput)
}
