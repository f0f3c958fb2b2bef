package report

import (
	"context"
	"fmt"

	"line-tracker/internal/service/target"
	"line-tracker/internal/storage"
)

type GroupRow struct {
	storage.GroupTotals
	AchievementPct float64 `json:"achievement_pct"`
	SeatsPerPerson float64 `json:"seats_per_person"`
}

type LineComparison struct {
	From             storage.Date `json:"start_date"`
	To               storage.Date `json:"end_date"`
	Groups           []GroupRow   `json:"groups"`
	BestGroupID      *int64       `json:"best_group_id"`
	WorstGroupID     *int64       `json:"worst_group_id"`
	TotalTarget      float64      `json:"total_target"`
	TotalActual      int          `json:"total_actual"`
	TotalDowntime    float64      `json:"total_downtime"`
	TotalManHours    float64      `json:"total_man_hours"`
	TotalAchievement float64      `json:"total_achievement_pct"`
}

// LineComparison итоги по активным группам за период, лучшая и худшая по выполнению плана.
func (s *Service) LineComparison(ctx context.Context, from, to storage.Date) (*LineComparison, error) {
	const op = "service.report.LineComparison"

	if to.Before(from) {
		return nil, fmt.Errorf("%s: конец периода раньше начала: %w", op, storage.ErrInvalidInput)
	}

	totals, err := s.store.GroupTotals(ctx, storage.ReportFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rep := &LineComparison{From: from, To: to, Groups: make([]GroupRow, 0, len(totals))}

	var bestPct, worstPct float64
	for i, t := range totals {
		t.Target = target.Round2(t.Target)
		t.Downtime = target.Round2(t.Downtime)
		t.ManHours = target.Round2(t.ManHours)
		t.AvgManpower = target.Round1(t.AvgManpower)

		row := GroupRow{GroupTotals: t, AchievementPct: percent(float64(t.Actual), t.Target)}
		if t.ManHours > 0 {
			row.SeatsPerPerson = target.Round2(float64(t.Actual) / t.ManHours)
		}

		// при равенстве остаётся первая группа в порядке выдачи
		if i == 0 || row.AchievementPct > bestPct {
			bestPct = row.AchievementPct
			rep.BestGroupID = &totals[i].GroupID
		}
		if i == 0 || row.AchievementPct < worstPct {
			worstPct = row.AchievementPct
			rep.WorstGroupID = &totals[i].GroupID
		}

		rep.TotalTarget += t.Target
		rep.TotalActual += t.Actual
		rep.TotalDowntime += t.Downtime
		rep.TotalManHours += t.ManHours
		rep.Groups = append(rep.Groups, row)
	}

	rep.TotalTarget = target.Round2(rep.TotalTarget)
	rep.TotalDowntime = target.Round2(rep.TotalDowntime)
	rep.TotalManHours = target.Round2(rep.TotalManHours)
	rep.TotalAchievement = percent(float64(rep.TotalActual), rep.TotalTarget)

	return rep, nil
}

type ManpowerDay struct {
	Date           storage.Date `json:"date"`
	Actual         int          `json:"actual"`
	ManHours       float64      `json:"man_hours"`
	SeatsPerPerson float64      `json:"seats_per_person"`
}

type ManpowerReport struct {
	From          storage.Date         `json:"start_date"`
	To            storage.Date         `json:"end_date"`
	GroupID       int64                `json:"group_id"`
	Details       []storage.SummaryRow `json:"details"`
	Days          []ManpowerDay        `json:"days"`
	TotalActual   int                  `json:"total_actual"`
	TotalManHours float64              `json:"total_man_hours"`
	AvgSeats      float64              `json:"avg_seats_per_person"`
	BestDay       *ManpowerDay         `json:"best_day"`
	WorstDay      *ManpowerDay         `json:"worst_day"`
}

// Manpower выработка на человеко-час по дням. Дни без человеко-часов в лучший/худший не идут.
func (s *Service) Manpower(ctx context.Context, f storage.ReportFilter) (*ManpowerReport, error) {
	const op = "service.report.Manpower"

	if f.To.Before(f.From) {
		return nil, fmt.Errorf("%s: конец периода раньше начала: %w", op, storage.ErrInvalidInput)
	}

	details, err := s.store.SummaryRows(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: детали: %w", op, err)
	}

	totals, err := s.store.DailyTotals(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: по дням: %w", op, err)
	}

	rep := &ManpowerReport{
		From:    f.From,
		To:      f.To,
		GroupID: f.GroupID,
		Details: details,
		Days:    make([]ManpowerDay, 0, len(totals)),
	}

	var manHours float64
	for _, t := range totals {
		day := ManpowerDay{Date: t.Date, Actual: t.Actual, ManHours: target.Round2(t.ManHours)}
		if t.ManHours > 0 {
			day.SeatsPerPerson = target.Round2(float64(t.Actual) / t.ManHours)
		}
		rep.Days = append(rep.Days, day)
		rep.TotalActual += t.Actual
		manHours += t.ManHours
	}

	for i := range rep.Days {
		d := &rep.Days[i]
		if d.ManHours <= 0 {
			continue
		}
		if rep.BestDay == nil || d.SeatsPerPerson > rep.BestDay.SeatsPerPerson {
			rep.BestDay = d
		}
		if rep.WorstDay == nil || d.SeatsPerPerson < rep.WorstDay.SeatsPerPerson {
			rep.WorstDay = d
		}
	}

	rep.TotalManHours = target.Round2(manHours)
	if manHours > 0 {
		rep.AvgSeats = target.Round2(float64(rep.TotalActual) / manHours)
	}

	return rep, nil
}
