package generate_excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"line-tracker/internal/service/report"
	"line-tracker/internal/storage"
)

type Kind string

const (
	KindWeekly         Kind = "weekly"
	KindMonthly        Kind = "monthly"
	KindLineComparison Kind = "line-comparison"
	KindManpower       Kind = "manpower"
	KindDeficit        Kind = "deficit"
	KindDowntime       Kind = "downtime"
)

// Request параметры выгрузки. Year и Month нужны только месячному отчёту,
// Filter.From для недельного задаёт любую дату недели.
type Request struct {
	Kind   Kind
	Filter storage.ReportFilter
	Year   int
	Month  int
}

type ReportSource interface {
	Weekly(ctx context.Context, weekOf storage.Date, groupID int64) (*report.WeeklyReport, error)
	Monthly(ctx context.Context, year, month int, groupID int64) (*report.MonthlyReport, error)
	LineComparison(ctx context.Context, from, to storage.Date) (*report.LineComparison, error)
	Manpower(ctx context.Context, f storage.ReportFilter) (*report.ManpowerReport, error)
	Deficit(ctx context.Context, f storage.ReportFilter) (*report.DeficitReport, error)
	Downtime(ctx context.Context, f storage.ReportFilter, sort storage.DowntimeSort, asc bool) (*report.DowntimeReport, error)
}

type GenerateExcelService struct {
	reports ReportSource
}

func NewGenerateService(reports ReportSource) *GenerateExcelService {
	return &GenerateExcelService{reports: reports}
}

// table лист отчёта: шапка, строки и итоговая строка (может быть пустой).
type table struct {
	sheet   string
	headers []string
	rows    [][]any
	total   []any
}

// GenerateExcel строит xlsx с одним листом выбранного отчёта и возвращает файл и имя для скачивания.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, req Request) ([]byte, string, error) {
	const op = "service.generate_excel.GenerateExcel"

	t, err := g.buildTable(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	data, err := render(t)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return data, fileName(req), nil
}

func (g *GenerateExcelService) buildTable(ctx context.Context, req Request) (table, error) {
	switch req.Kind {
	case KindWeekly:
		rep, err := g.reports.Weekly(ctx, req.Filter.From, req.Filter.GroupID)
		if err != nil {
			return table{}, err
		}
		return dayTable("Неделя", rep.Days, rep.Totals), nil

	case KindMonthly:
		rep, err := g.reports.Monthly(ctx, req.Year, req.Month, req.Filter.GroupID)
		if err != nil {
			return table{}, err
		}
		return dayTable("Месяц", rep.Days, rep.Totals), nil

	case KindLineComparison:
		rep, err := g.reports.LineComparison(ctx, req.Filter.From, req.Filter.To)
		if err != nil {
			return table{}, err
		}
		t := table{
			sheet:   "Сравнение линий",
			headers: []string{"Группа", "План", "Факт", "Выполнение, %", "Простой, мин", "Чел-часы", "Ср. численность", "Выработка/чел-час", "Рабочих дней"},
		}
		for _, r := range rep.Groups {
			t.rows = append(t.rows, []any{r.GroupName, r.Target, r.Actual, r.AchievementPct, r.Downtime, r.ManHours, r.AvgManpower, r.SeatsPerPerson, r.DaysWorked})
		}
		t.total = []any{"Итого", rep.TotalTarget, rep.TotalActual, rep.TotalAchievement, rep.TotalDowntime, rep.TotalManHours}
		return t, nil

	case KindManpower:
		rep, err := g.reports.Manpower(ctx, req.Filter)
		if err != nil {
			return table{}, err
		}
		t := table{
			sheet:   "Выработка",
			headers: []string{"Дата", "Группа", "Факт", "Чел-часы", "Выработка/чел-час", "Ср. численность"},
		}
		for _, r := range rep.Details {
			t.rows = append(t.rows, []any{r.ProductionDate.String(), r.GroupName, r.TotalActual, r.TotalManHours, r.SeatsPerPerson, r.TotalManpowerAvg})
		}
		t.total = []any{"Итого", "", rep.TotalActual, rep.TotalManHours, rep.AvgSeats}
		return t, nil

	case KindDeficit:
		rep, err := g.reports.Deficit(ctx, req.Filter)
		if err != nil {
			return table{}, err
		}
		t := table{
			sheet:   "Причины недовыполнения",
			headers: []string{"Место", "Причина", "Случаев", "Недовыполнение", "%", "Накопл. %"},
		}
		for _, r := range rep.Reasons {
			t.rows = append(t.rows, []any{r.Rank, r.ReasonText, r.Occurrences, r.TotalDeficit, r.Pct, r.CumPct})
		}
		t.total = []any{"", "Итого", "", rep.TotalDeficit}
		return t, nil

	case KindDowntime:
		rep, err := g.reports.Downtime(ctx, req.Filter, storage.SortByDate, true)
		if err != nil {
			return table{}, err
		}
		t := table{
			sheet:   "Простои",
			headers: []string{"Категория", "Событий", "Минут", "Среднее, мин", "%"},
		}
		for _, c := range rep.Categories {
			t.rows = append(t.rows, []any{string(c.Category), c.EventCount, c.TotalMinutes, c.AvgDuration, c.Pct})
		}
		t.total = []any{"Итого", rep.TotalEvents, rep.TotalMinutes}
		return t, nil
	}

	return table{}, fmt.Errorf("неизвестный отчёт %q: %w", req.Kind, storage.ErrInvalidInput)
}

func dayTable(sheet string, days []report.DayRow, totals report.Totals) table {
	t := table{
		sheet:   sheet,
		headers: []string{"Дата", "День", "План", "Факт", "Отклонение", "Отклонение, %", "Простой, мин"},
	}
	for _, d := range days {
		if !d.HasData {
			t.rows = append(t.rows, []any{d.Date.String(), d.Weekday, "-", "-", "-", "-", "-"})
			continue
		}
		t.rows = append(t.rows, []any{d.Date.String(), d.Weekday, d.Target, d.Actual, d.Variance, d.VariancePct, d.Downtime})
	}
	t.total = []any{"Итого", "", totals.Target, totals.Actual, totals.Variance, totals.VariancePct, totals.Downtime}
	return t
}

func render(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return nil, fmt.Errorf("sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}

	for i, name := range t.headers {
		f.SetCellValue(t.sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(t.sheet, "A1", cellName(len(t.headers), 1), headerStyle)

	for rowIdx, row := range t.rows {
		for colIdx, v := range row {
			f.SetCellValue(t.sheet, cellName(colIdx+1, rowIdx+2), v)
		}
	}

	if len(t.total) > 0 {
		rowNum := len(t.rows) + 2
		for colIdx, v := range t.total {
			f.SetCellValue(t.sheet, cellName(colIdx+1, rowNum), v)
		}
		f.SetCellStyle(t.sheet, cellName(1, rowNum), cellName(len(t.headers), rowNum), totalStyle)
	}

	f.SetPanes(t.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})

	lastCol, _ := excelize.ColumnNumberToName(len(t.headers))
	f.SetColWidth(t.sheet, "A", lastCol, 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func fileName(req Request) string {
	switch req.Kind {
	case KindMonthly:
		return fmt.Sprintf("report_monthly_%04d-%02d.xlsx", req.Year, req.Month)
	case KindWeekly:
		return fmt.Sprintf("report_weekly_%s.xlsx", report.WeekStart(req.Filter.From))
	}
	return fmt.Sprintf("report_%s_%s_%s.xlsx", req.Kind, req.Filter.From, req.Filter.To)
}
