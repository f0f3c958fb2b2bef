package mysql

import (
	"context"
	"fmt"

	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

const breakColumns = `id, break_type, COALESCE(label, ''), is_default, COALESCE(day_type, 'all'),
	production_date, group_id, start_time, end_time`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBreak(r rowScanner) (storage.Break, error) {
	var b storage.Break
	err := r.Scan(&b.ID, &b.BreakType, &b.Label, &b.IsDefault, &b.DayType,
		&b.ProductionDate, &b.GroupID, &b.Start, &b.End)
	return b, err
}

func (s *Storage) querySlots(ctx context.Context, op, query string, args ...any) ([]storage.TimeSlot, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	slots := []storage.TimeSlot{}
	for rows.Next() {
		var sl storage.TimeSlot
		if err := rows.Scan(&sl.SlotNumber, &sl.Start, &sl.End, &sl.Label); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		slots = append(slots, sl)
	}

	return slots, rows.Err()
}

func (s *Storage) queryBreaks(ctx context.Context, op, query string, args ...any) ([]storage.Break, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	breaks := []storage.Break{}
	for rows.Next() {
		b, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		breaks = append(breaks, b)
	}

	return breaks, rows.Err()
}

func (s *Storage) GetDefaultSlots(ctx context.Context, dayType storage.DayType) ([]storage.TimeSlot, error) {
	const op = "storage.mysql.GetDefaultSlots"

	return s.querySlots(ctx, op, `
		SELECT slot_number, start_time, end_time, COALESCE(label, '')
		FROM default_time_slots
		WHERE day_type = ?
		ORDER BY slot_number`, dayType)
}

func (s *Storage) GetDateSlotOverrides(ctx context.Context, date storage.Date) ([]storage.TimeSlot, error) {
	const op = "storage.mysql.GetDateSlotOverrides"

	return s.querySlots(ctx, op, `
		SELECT slot_number, start_time, end_time, COALESCE(label, '')
		FROM daily_time_slots
		WHERE production_date = ?
		ORDER BY slot_number`, date)
}

// GetDefaultBreaks при groupID == nil только общие перерывы, иначе общие и перерывы группы.
func (s *Storage) GetDefaultBreaks(ctx context.Context, dayType storage.DayType, groupID *int64) ([]storage.Break, error) {
	const op = "storage.mysql.GetDefaultBreaks"

	query := `SELECT ` + breakColumns + ` FROM breaks
		WHERE is_default = 1 AND (day_type = ? OR day_type = 'all')`
	args := []any{dayType}

	if groupID != nil {
		query += ` AND (group_id IS NULL OR group_id = ?)`
		args = append(args, *groupID)
	} else {
		query += ` AND group_id IS NULL`
	}
	query += ` ORDER BY start_time`

	return s.queryBreaks(ctx, op, query, args...)
}

func (s *Storage) GetDateBreaks(ctx context.Context, date storage.Date, groupID *int64) ([]storage.Break, error) {
	const op = "storage.mysql.GetDateBreaks"

	query := `SELECT ` + breakColumns + ` FROM breaks WHERE production_date = ?`
	args := []any{date}

	if groupID != nil {
		query += ` AND (group_id IS NULL OR group_id = ?)`
		args = append(args, *groupID)
	} else {
		query += ` AND group_id IS NULL`
	}
	query += ` ORDER BY start_time`

	return s.queryBreaks(ctx, op, query, args...)
}

// ListDateBreaks все перерывы на дату вместе с групповыми, для экрана настройки дня.
func (s *Storage) ListDateBreaks(ctx context.Context, date storage.Date) ([]storage.Break, error) {
	const op = "storage.mysql.ListDateBreaks"

	return s.queryBreaks(ctx, op, `SELECT `+breakColumns+` FROM breaks
		WHERE production_date = ?
		ORDER BY start_time`, date)
}

func (s *Storage) ListDefaultBreaks(ctx context.Context) ([]storage.Break, error) {
	const op = "storage.mysql.ListDefaultBreaks"

	return s.queryBreaks(ctx, op, `SELECT `+breakColumns+` FROM breaks
		WHERE is_default = 1
		ORDER BY day_type, start_time`)
}

func (s *Storage) InsertBreak(ctx context.Context, b storage.Break) (int64, error) {
	const op = "storage.mysql.InsertBreak"

	dayType := b.DayType
	if dayType == "" {
		dayType = storage.DayAll
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO breaks (break_type, label, is_default, day_type, production_date, group_id, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BreakType, b.Label, b.IsDefault, dayType, b.ProductionDate, b.GroupID, b.Start, b.End)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return res.LastInsertId()
}

// DeleteBreak isDefault отделяет дефолтные перерывы от перерывов на дату, чужие не удаляются.
func (s *Storage) DeleteBreak(ctx context.Context, id int64, isDefault bool) error {
	const op = "storage.mysql.DeleteBreak"

	res, err := s.db.ExecContext(ctx, `DELETE FROM breaks WHERE id = ? AND is_default = ?`, id, isDefault)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return affected(op, res)
}

func (s *Storage) GetShiftOverride(ctx context.Context, date storage.Date) (*storage.ShiftWindow, error) {
	const op = "storage.mysql.GetShiftOverride"

	var w storage.ShiftWindow
	err := s.db.QueryRowContext(ctx, `
		SELECT shift_start, shift_end, COALESCE(notes, '')
		FROM daily_shift_config
		WHERE production_date = ?`, date).Scan(&w.Start, &w.End, &w.Notes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	w.IsOverride = true
	return &w, nil
}

func (s *Storage) UpsertShiftOverride(ctx context.Context, date storage.Date, w storage.ShiftWindow) error {
	const op = "storage.mysql.UpsertShiftOverride"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_shift_config (production_date, shift_start, shift_end, notes)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			shift_start = VALUES(shift_start),
			shift_end = VALUES(shift_end),
			notes = VALUES(notes)`,
		date, w.Start, w.End, w.Notes)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeleteShiftOverride(ctx context.Context, date storage.Date) error {
	const op = "storage.mysql.DeleteShiftOverride"

	res, err := s.db.ExecContext(ctx, `DELETE FROM daily_shift_config WHERE production_date = ?`, date)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return affected(op, res)
}

// ReplaceSlotOverrides заменяет все слоты даты. Пустой список снимает переопределение.
func (s *Storage) ReplaceSlotOverrides(ctx context.Context, date storage.Date, slots []storage.TimeSlot) error {
	const op = "storage.mysql.ReplaceSlotOverrides"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_time_slots WHERE production_date = ?`, date); err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	if len(slots) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO daily_time_slots (production_date, slot_number, start_time, end_time, label)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("%s: prepare statement: %w", op, err)
		}
		defer stmt.Close()

		for _, sl := range slots {
			if _, err := stmt.ExecContext(ctx, date, sl.SlotNumber, sl.Start, sl.End, sl.Label); err != nil {
				return fmt.Errorf("%s: слот %d: %w", op, sl.SlotNumber, err)
			}
		}
	}

	return tx.Commit()
}

// ReplaceDefaultSlots то же для слотов по умолчанию типа дня.
func (s *Storage) ReplaceDefaultSlots(ctx context.Context, dayType storage.DayType, slots []storage.TimeSlot) error {
	const op = "storage.mysql.ReplaceDefaultSlots"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM default_time_slots WHERE day_type = ?`, dayType); err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO default_time_slots (day_type, slot_number, start_time, end_time, label)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, sl := range slots {
		if _, err := stmt.ExecContext(ctx, dayType, sl.SlotNumber, sl.Start, sl.End, sl.Label); err != nil {
			return fmt.Errorf("%s: слот %d: %w", op, sl.SlotNumber, err)
		}
	}

	return tx.Commit()
}

func shiftKeys(dayType storage.DayType) (string, string) {
	return "default_shift_start_" + string(dayType), "default_shift_end_" + string(dayType)
}

// GetDefaultShift смена по умолчанию из settings. ErrNotFound, если ключей нет.
func (s *Storage) GetDefaultShift(ctx context.Context, dayType storage.DayType) (*storage.ShiftWindow, error) {
	const op = "storage.mysql.GetDefaultShift"

	startKey, endKey := shiftKeys(dayType)

	rows, err := s.db.QueryContext(ctx, `
		SELECT setting_key, setting_value FROM settings WHERE setting_key IN (?, ?)`, startKey, endKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	startRaw, okStart := values[startKey]
	endRaw, okEnd := values[endKey]
	if !okStart || !okEnd {
		return nil, fmt.Errorf("%s: %s: %w", op, dayType, storage.ErrNotFound)
	}

	start, err := clock.Parse(startRaw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	end, err := clock.Parse(endRaw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.ShiftWindow{Start: start, End: end}, nil
}

func (s *Storage) SaveDefaultShift(ctx context.Context, dayType storage.DayType, w storage.ShiftWindow) error {
	const op = "storage.mysql.SaveDefaultShift"

	startKey, endKey := shiftKeys(dayType)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO settings (setting_key, setting_value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value)`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, startKey, w.Start.HHMM()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := stmt.ExecContext(ctx, endKey, w.End.HHMM()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return tx.Commit()
}
