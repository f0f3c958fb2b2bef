package mysql

import (
	"context"
	"fmt"

	"line-tracker/internal/storage"
)

const downtimeColumns = `d.id, d.production_date, d.group_id, d.start_time, d.end_time,
	d.duration_minutes, COALESCE(d.reason, ''), d.category, pg.name`

func scanDowntime(r rowScanner) (storage.DowntimeEvent, error) {
	var ev storage.DowntimeEvent
	err := r.Scan(&ev.ID, &ev.ProductionDate, &ev.GroupID, &ev.Start, &ev.End,
		&ev.DurationMinutes, &ev.Reason, &ev.Category, &ev.GroupName)
	return ev, err
}

func (s *Storage) InsertDowntime(ctx context.Context, ev storage.DowntimeEvent) (int64, error) {
	const op = "storage.mysql.InsertDowntime"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO downtimes (production_date, group_id, start_time, end_time, duration_minutes, reason, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ProductionDate, ev.GroupID, ev.Start, ev.End, ev.DurationMinutes, ev.Reason, ev.Category)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return res.LastInsertId()
}

func (s *Storage) GetDowntime(ctx context.Context, id int64) (*storage.DowntimeEvent, error) {
	const op = "storage.mysql.GetDowntime"

	ev, err := scanDowntime(s.db.QueryRowContext(ctx, `
		SELECT `+downtimeColumns+`
		FROM downtimes d
		JOIN production_groups pg ON d.group_id = pg.id
		WHERE d.id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: id=%d: %w", op, id, mapErr(err))
	}

	return &ev, nil
}

func (s *Storage) UpdateDowntime(ctx context.Context, ev storage.DowntimeEvent) error {
	const op = "storage.mysql.UpdateDowntime"

	_, err := s.db.ExecContext(ctx, `
		UPDATE downtimes SET end_time = ?, duration_minutes = ?, reason = ?, category = ? WHERE id = ?`,
		ev.End, ev.DurationMinutes, ev.Reason, ev.Category, ev.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteDowntime(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteDowntime"

	res, err := s.db.ExecContext(ctx, `DELETE FROM downtimes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return affected(op, res)
}

func (s *Storage) ListDowntimes(ctx context.Context, date storage.Date, groupID int64) ([]storage.DowntimeEvent, error) {
	const op = "storage.mysql.ListDowntimes"

	return s.queryDowntimes(ctx, op, `
		SELECT `+downtimeColumns+`
		FROM downtimes d
		JOIN production_groups pg ON d.group_id = pg.id
		WHERE d.production_date = ? AND d.group_id = ?
		ORDER BY d.start_time`, date, groupID)
}

func (s *Storage) queryDowntimes(ctx context.Context, op, query string, args ...any) ([]storage.DowntimeEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := []storage.DowntimeEvent{}
	for rows.Next() {
		ev, err := scanDowntime(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}
