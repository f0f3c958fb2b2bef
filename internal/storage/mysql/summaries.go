package mysql

import (
	"context"
	"fmt"

	"line-tracker/internal/storage"
)

func (s *Storage) UpsertSummary(ctx context.Context, sum storage.DailySummary) error {
	const op = "storage.mysql.UpsertSummary"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_summaries
			(production_date, group_id, total_target, total_actual, total_deficit, total_excess,
			 total_downtime_minutes, total_man_hours, total_manpower_avg, seats_per_person)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_target = VALUES(total_target),
			total_actual = VALUES(total_actual),
			total_deficit = VALUES(total_deficit),
			total_excess = VALUES(total_excess),
			total_downtime_minutes = VALUES(total_downtime_minutes),
			total_man_hours = VALUES(total_man_hours),
			total_manpower_avg = VALUES(total_manpower_avg),
			seats_per_person = VALUES(seats_per_person)`,
		sum.ProductionDate, sum.GroupID, sum.TotalTarget, sum.TotalActual, sum.TotalDeficit, sum.TotalExcess,
		sum.TotalDowntimeMinutes, sum.TotalManHours, sum.TotalManpowerAvg, sum.SeatsPerPerson)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return nil
}

func (s *Storage) GetSummary(ctx context.Context, date storage.Date, groupID int64) (*storage.DailySummary, error) {
	const op = "storage.mysql.GetSummary"

	var sum storage.DailySummary
	err := s.db.QueryRowContext(ctx, `
		SELECT production_date, group_id, total_target, total_actual, total_deficit, total_excess,
			total_downtime_minutes, total_man_hours, total_manpower_avg, seats_per_person
		FROM daily_summaries
		WHERE production_date = ? AND group_id = ?`, date, groupID).
		Scan(&sum.ProductionDate, &sum.GroupID, &sum.TotalTarget, &sum.TotalActual, &sum.TotalDeficit,
			&sum.TotalExcess, &sum.TotalDowntimeMinutes, &sum.TotalManHours, &sum.TotalManpowerAvg, &sum.SeatsPerPerson)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return &sum, nil
}
