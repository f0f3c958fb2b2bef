package mysql

import (
	"context"
	"fmt"

	"line-tracker/internal/storage"
)

// DailyTotals суммы daily_summaries по дням периода.
func (s *Storage) DailyTotals(ctx context.Context, f storage.ReportFilter) ([]storage.DayTotals, error) {
	const op = "storage.mysql.DailyTotals"

	where, args := reportWhere("ds", f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ds.production_date,
			SUM(ds.total_target), SUM(ds.total_actual),
			SUM(ds.total_downtime_minutes), SUM(ds.total_man_hours)
		FROM daily_summaries ds
		WHERE `+where+`
		GROUP BY ds.production_date
		ORDER BY ds.production_date`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	totals := []storage.DayTotals{}
	for rows.Next() {
		var t storage.DayTotals
		if err := rows.Scan(&t.Date, &t.Target, &t.Actual, &t.Downtime, &t.ManHours); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

// GroupTotals итоги активных групп за период, по убыванию факта.
func (s *Storage) GroupTotals(ctx context.Context, f storage.ReportFilter) ([]storage.GroupTotals, error) {
	const op = "storage.mysql.GroupTotals"

	where, args := reportWhere("ds", f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ds.group_id, pg.name,
			SUM(ds.total_target), SUM(ds.total_actual),
			SUM(ds.total_downtime_minutes), SUM(ds.total_man_hours),
			AVG(ds.total_manpower_avg), COUNT(DISTINCT ds.production_date)
		FROM daily_summaries ds
		JOIN production_groups pg ON ds.group_id = pg.id
		WHERE `+where+` AND pg.is_active = 1
		GROUP BY ds.group_id, pg.name
		ORDER BY SUM(ds.total_actual) DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	totals := []storage.GroupTotals{}
	for rows.Next() {
		var t storage.GroupTotals
		if err := rows.Scan(&t.GroupID, &t.GroupName, &t.Target, &t.Actual, &t.Downtime,
			&t.ManHours, &t.AvgManpower, &t.DaysWorked); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

func (s *Storage) SummaryRows(ctx context.Context, f storage.ReportFilter) ([]storage.SummaryRow, error) {
	const op = "storage.mysql.SummaryRows"

	where, args := reportWhere("ds", f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT ds.production_date, ds.group_id, pg.name, ds.total_target, ds.total_actual,
			ds.total_deficit, ds.total_excess, ds.total_downtime_minutes, ds.total_man_hours,
			ds.total_manpower_avg, ds.seats_per_person
		FROM daily_summaries ds
		JOIN production_groups pg ON ds.group_id = pg.id
		WHERE `+where+`
		ORDER BY ds.production_date, pg.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []storage.SummaryRow{}
	for rows.Next() {
		var r storage.SummaryRow
		if err := rows.Scan(&r.ProductionDate, &r.GroupID, &r.GroupName, &r.TotalTarget, &r.TotalActual,
			&r.TotalDeficit, &r.TotalExcess, &r.TotalDowntimeMinutes, &r.TotalManHours,
			&r.TotalManpowerAvg, &r.SeatsPerPerson); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// deficitWhere только слоты с фактом ниже плана.
func deficitWhere(f storage.ReportFilter) (string, []any) {
	where, args := reportWhere("pe", f)
	return "pe.actual_output < pe.target_output AND " + where, args
}

// DeficitByReason недовыполнение по причинам. Слоты без причины идут строкой с ReasonID == nil.
func (s *Storage) DeficitByReason(ctx context.Context, f storage.ReportFilter) ([]storage.DeficitByReason, error) {
	const op = "storage.mysql.DeficitByReason"

	where, args := deficitWhere(f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT pe.deficit_reason_id, COALESCE(dr.reason_text, ''), COUNT(*),
			CAST(SUM(FLOOR(pe.target_output) - pe.actual_output) AS SIGNED)
		FROM production_entries pe
		LEFT JOIN deficit_reasons dr ON pe.deficit_reason_id = dr.id
		WHERE `+where+`
		GROUP BY pe.deficit_reason_id, dr.reason_text
		ORDER BY 4 DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []storage.DeficitByReason{}
	for rows.Next() {
		var r storage.DeficitByReason
		if err := rows.Scan(&r.ReasonID, &r.ReasonText, &r.Occurrences, &r.TotalDeficit); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, r)
	}

	return out, rows.Err()
}

// DeficitEntries слоты с недовыполнением по одной причине, reasonID == nil означает без причины.
func (s *Storage) DeficitEntries(ctx context.Context, f storage.ReportFilter, reasonID *int64) ([]storage.DeficitEntry, error) {
	const op = "storage.mysql.DeficitEntries"

	where, args := deficitWhere(f)
	if reasonID == nil {
		where += " AND pe.deficit_reason_id IS NULL"
	} else {
		where += " AND pe.deficit_reason_id = ?"
		args = append(args, *reasonID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pe.production_date, pe.slot_number, pe.group_id, pg.name,
			CAST(FLOOR(pe.target_output) - pe.actual_output AS SIGNED)
		FROM production_entries pe
		JOIN production_groups pg ON pe.group_id = pg.id
		WHERE `+where+`
		ORDER BY pe.production_date, pe.slot_number`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []storage.DeficitEntry{}
	for rows.Next() {
		var e storage.DeficitEntry
		if err := rows.Scan(&e.ProductionDate, &e.SlotNumber, &e.GroupID, &e.GroupName, &e.Deficit); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// DeficitOtherTexts частота свободных текстов причины, без учёта регистра и пробелов по краям.
func (s *Storage) DeficitOtherTexts(ctx context.Context, f storage.ReportFilter) ([]storage.DeficitOther, error) {
	const op = "storage.mysql.DeficitOtherTexts"

	where, args := deficitWhere(f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT LOWER(TRIM(pe.deficit_reason_other)) AS other_text, COUNT(*),
			CAST(SUM(FLOOR(pe.target_output) - pe.actual_output) AS SIGNED)
		FROM production_entries pe
		WHERE `+where+`
			AND pe.deficit_reason_other IS NOT NULL
			AND pe.deficit_reason_other != ''
		GROUP BY other_text
		ORDER BY 2 DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []storage.DeficitOther{}
	for rows.Next() {
		var o storage.DeficitOther
		if err := rows.Scan(&o.Text, &o.Frequency, &o.TotalDeficit); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, o)
	}

	return out, rows.Err()
}

func (s *Storage) DowntimeByCategory(ctx context.Context, f storage.ReportFilter) ([]storage.DowntimeByCategory, error) {
	const op = "storage.mysql.DowntimeByCategory"

	where, args := reportWhere("d", f)

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.category, COUNT(*), COALESCE(SUM(d.duration_minutes), 0)
		FROM downtimes d
		WHERE `+where+`
		GROUP BY d.category
		ORDER BY 3 DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []storage.DowntimeByCategory{}
	for rows.Next() {
		var c storage.DowntimeByCategory
		if err := rows.Scan(&c.Category, &c.EventCount, &c.TotalMinutes); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

var downtimeSortColumns = map[storage.DowntimeSort]string{
	storage.SortByDate:     "d.production_date",
	storage.SortByGroup:    "pg.name",
	storage.SortByStart:    "d.start_time",
	storage.SortByDuration: "d.duration_minutes",
	storage.SortByCategory: "d.category",
}

// DowntimeLog журнал простоев за период. Колонка сортировки только из белого списка.
func (s *Storage) DowntimeLog(ctx context.Context, f storage.ReportFilter, sort storage.DowntimeSort, asc bool) ([]storage.DowntimeEvent, error) {
	const op = "storage.mysql.DowntimeLog"

	col, ok := downtimeSortColumns[sort]
	if !ok {
		col = downtimeSortColumns[storage.SortByDate]
	}
	dir := "DESC"
	if asc {
		dir = "ASC"
	}

	where, args := reportWhere("d", f)

	return s.queryDowntimes(ctx, op, `
		SELECT `+downtimeColumns+`
		FROM downtimes d
		JOIN production_groups pg ON d.group_id = pg.id
		WHERE `+where+`
		ORDER BY `+col+` `+dir+`, d.start_time ASC`, args...)
}
