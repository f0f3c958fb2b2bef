package mysql

import (
	"context"
	"fmt"

	"line-tracker/internal/storage"
)

const entryColumns = `pe.id, pe.production_date, pe.group_id, pe.slot_number, pe.cells_operative,
	pe.manpower_headcount, pe.actual_output, pe.target_output, pe.effective_minutes,
	pe.deficit_reason_id, pe.deficit_reason_other, pe.downtime_minutes, pe.downtime_category,
	pe.downtime_reason, dr.reason_text`

func scanEntry(r rowScanner) (storage.ProductionEntry, error) {
	var e storage.ProductionEntry
	err := r.Scan(&e.ID, &e.ProductionDate, &e.GroupID, &e.SlotNumber, &e.CellsOperative,
		&e.ManpowerHeadcount, &e.ActualOutput, &e.TargetOutput, &e.EffectiveMinutes,
		&e.DeficitReasonID, &e.DeficitReasonOther, &e.DowntimeMinutes, &e.DowntimeCategory,
		&e.DowntimeReason, &e.ReasonText)
	return e, err
}

func (s *Storage) GetEntries(ctx context.Context, date storage.Date, groupID int64) ([]storage.ProductionEntry, error) {
	const op = "storage.mysql.GetEntries"

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM production_entries pe
		LEFT JOIN deficit_reasons dr ON pe.deficit_reason_id = dr.id
		WHERE pe.production_date = ? AND pe.group_id = ?
		ORDER BY pe.slot_number`, date, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	entries := []storage.ProductionEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *Storage) GetEntry(ctx context.Context, id int64) (*storage.ProductionEntry, error) {
	const op = "storage.mysql.GetEntry"

	e, err := scanEntry(s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM production_entries pe
		LEFT JOIN deficit_reasons dr ON pe.deficit_reason_id = dr.id
		WHERE pe.id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("%s: id=%d: %w", op, id, mapErr(err))
	}

	return &e, nil
}

// UpsertEntries одна транзакция на пачку. Ключ (дата, группа, слот), последняя запись побеждает.
func (s *Storage) UpsertEntries(ctx context.Context, entries []storage.ProductionEntry) error {
	const op = "storage.mysql.UpsertEntries"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO production_entries
			(production_date, group_id, slot_number, cells_operative, manpower_headcount,
			 actual_output, target_output, effective_minutes, deficit_reason_id,
			 deficit_reason_other, downtime_minutes, downtime_category, downtime_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			cells_operative = VALUES(cells_operative),
			manpower_headcount = VALUES(manpower_headcount),
			actual_output = VALUES(actual_output),
			target_output = VALUES(target_output),
			effective_minutes = VALUES(effective_minutes),
			deficit_reason_id = VALUES(deficit_reason_id),
			deficit_reason_other = VALUES(deficit_reason_other),
			downtime_minutes = VALUES(downtime_minutes),
			downtime_category = VALUES(downtime_category),
			downtime_reason = VALUES(downtime_reason)
	`)
	if err != nil {
		return fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx, e.ProductionDate, e.GroupID, e.SlotNumber, e.CellsOperative,
			e.ManpowerHeadcount, e.ActualOutput, e.TargetOutput, e.EffectiveMinutes, e.DeficitReasonID,
			e.DeficitReasonOther, e.DowntimeMinutes, e.DowntimeCategory, e.DowntimeReason)
		if err != nil {
			return fmt.Errorf("%s: слот %d: %w", op, e.SlotNumber, mapErr(err))
		}
	}

	return tx.Commit()
}

func (s *Storage) DeleteEntry(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteEntry"

	res, err := s.db.ExecContext(ctx, `DELETE FROM production_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return affected(op, res)
}
