package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"line-tracker/internal/service/target"
	"line-tracker/internal/storage"
)

type DayRow struct {
	Date        storage.Date `json:"date"`
	Weekday     string       `json:"day"`
	Target      float64      `json:"target"`
	Actual      int          `json:"actual"`
	Variance    float64      `json:"variance"`
	VariancePct float64      `json:"variance_pct"`
	Downtime    float64      `json:"downtime"`
	HasData     bool         `json:"has_data"`
}

type Totals struct {
	Target      float64 `json:"target"`
	Actual      int     `json:"actual"`
	Variance    float64 `json:"variance"`
	VariancePct float64 `json:"variance_pct"`
	Downtime    float64 `json:"downtime"`
}

type WeeklyReport struct {
	WeekStart storage.Date `json:"week_start"`
	WeekEnd   storage.Date `json:"week_end"`
	GroupID   int64        `json:"group_id"`
	Days      []DayRow     `json:"days"`
	Totals    Totals       `json:"totals"`
}

// WeekStart понедельник недели, в которую попадает дата.
func WeekStart(d storage.Date) storage.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// Weekly тренд за 7 дней начиная с понедельника. Дни без сохранённых сводок, но с записями,
// пересчитываются на лету.
func (s *Service) Weekly(ctx context.Context, weekOf storage.Date, groupID int64) (*WeeklyReport, error) {
	const op = "service.report.Weekly"

	start := WeekStart(weekOf)
	end := start.AddDays(6)
	f := storage.ReportFilter{From: start, To: end, GroupID: groupID}

	totals, err := s.store.DailyTotals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byDate := make(map[string]storage.DayTotals, len(totals))
	for _, t := range totals {
		byDate[t.Date.String()] = t
	}

	var missing []storage.Date
	for i := 0; i < 7; i++ {
		d := start.AddDays(i)
		if _, ok := byDate[d.String()]; !ok {
			missing = append(missing, d)
		}
	}

	if len(missing) > 0 {
		recomputed, err := s.recomputeDays(ctx, missing, groupID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for k, v := range recomputed {
			byDate[k] = v
		}
	}

	rep := &WeeklyReport{WeekStart: start, WeekEnd: end, GroupID: groupID, Days: make([]DayRow, 0, 7)}
	for i := 0; i < 7; i++ {
		d := start.AddDays(i)
		row := DayRow{Date: d, Weekday: d.Weekday().String()}
		if t, ok := byDate[d.String()]; ok {
			fillDayRow(&row, t)
		}
		rep.Days = append(rep.Days, row)
	}
	rep.Totals = sumRows(rep.Days)

	return rep, nil
}

// recomputeDays пересчитывает сводки за дни, где есть записи, и возвращает суммы по дням.
func (s *Service) recomputeDays(ctx context.Context, days []storage.Date, groupID int64) (map[string]storage.DayTotals, error) {
	groupIDs := []int64{groupID}
	if groupID == 0 {
		groups, err := s.store.GetActiveGroups(ctx)
		if err != nil {
			return nil, fmt.Errorf("группы: %w", err)
		}
		groupIDs = groupIDs[:0]
		for _, g := range groups {
			groupIDs = append(groupIDs, g.ID)
		}
	}

	var (
		mu  sync.Mutex
		out = make(map[string]storage.DayTotals)
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, d := range days {
		for _, gid := range groupIDs {
			g.Go(func() error {
				entries, err := s.store.GetEntries(gCtx, d, gid)
				if err != nil {
					return fmt.Errorf("записи за %s группы id=%d: %w", d, gid, err)
				}
				if len(entries) == 0 {
					return nil
				}

				sum, err := s.summary.ComputeDailySummary(gCtx, d, gid)
				if err != nil {
					return fmt.Errorf("сводка за %s группы id=%d: %w", d, gid, err)
				}

				mu.Lock()
				defer mu.Unlock()
				t := out[d.String()]
				t.Date = d
				t.Target += sum.TotalTarget
				t.Actual += sum.TotalActual
				t.Downtime += sum.TotalDowntimeMinutes
				t.ManHours += sum.TotalManHours
				out[d.String()] = t
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type MonthlyReport struct {
	Year           int      `json:"year"`
	Month          int      `json:"month"`
	GroupID        int64    `json:"group_id"`
	Days           []DayRow `json:"days"`
	Totals         Totals   `json:"totals"`
	ManHours       float64  `json:"man_hours"`
	WorkingDays    int      `json:"working_days"`
	AchievementPct float64  `json:"achievement_pct"`
	AvgDailyOutput int64    `json:"avg_daily_output"`
}

// Monthly только дни с сохранёнными сводками. Год ограничен 2020..2099, месяц 1..12.
func (s *Service) Monthly(ctx context.Context, year, month int, groupID int64) (*MonthlyReport, error) {
	const op = "service.report.Monthly"

	month = min(max(month, 1), 12)
	year = min(max(year, 2020), 2099)

	from := storage.NewDate(year, time.Month(month), 1)
	to := storage.DateOf(from.AddDate(0, 1, -1))

	totals, err := s.store.DailyTotals(ctx, storage.ReportFilter{From: from, To: to, GroupID: groupID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rep := &MonthlyReport{Year: year, Month: month, GroupID: groupID, Days: make([]DayRow, 0, len(totals))}
	var manHours float64
	for _, t := range totals {
		row := DayRow{Date: t.Date, Weekday: t.Date.Weekday().String()}
		fillDayRow(&row, t)
		rep.Days = append(rep.Days, row)
		manHours += t.ManHours
	}

	rep.Totals = sumRows(rep.Days)
	rep.ManHours = target.Round2(manHours)
	rep.WorkingDays = len(rep.Days)
	rep.AchievementPct = percent(float64(rep.Totals.Actual), rep.Totals.Target)
	if rep.WorkingDays > 0 {
		rep.AvgDailyOutput = decimal.NewFromInt(int64(rep.Totals.Actual)).
			Div(decimal.NewFromInt(int64(rep.WorkingDays))).
			Round(0).IntPart()
	}

	return rep, nil
}

func fillDayRow(row *DayRow, t storage.DayTotals) {
	row.HasData = true
	row.Target = target.Round2(t.Target)
	row.Actual = t.Actual
	row.Downtime = target.Round2(t.Downtime)
	row.Variance = target.Round2(float64(row.Actual) - row.Target)
	row.VariancePct = percent(row.Variance, row.Target)
}

func sumRows(rows []DayRow) Totals {
	var t Totals
	for _, r := range rows {
		t.Target += r.Target
		t.Actual += r.Actual
		t.Downtime += r.Downtime
	}
	t.Target = target.Round2(t.Target)
	t.Downtime = target.Round2(t.Downtime)
	t.Variance = target.Round2(float64(t.Actual) - t.Target)
	t.VariancePct = percent(t.Variance, t.Target)
	return t
}
