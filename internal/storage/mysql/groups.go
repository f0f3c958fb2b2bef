package mysql

import (
	"context"
	"fmt"

	"line-tracker/internal/storage"
)

const groupColumns = `id, name, default_cells, expected_output_per_cell_per_hour, display_order, is_active`

func (s *Storage) GetGroup(ctx context.Context, id int64) (*storage.ProductionGroup, error) {
	const op = "storage.mysql.GetGroup"

	var g storage.ProductionGroup
	err := s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM production_groups WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.DefaultCells, &g.RatePerCellPerHour, &g.DisplayOrder, &g.IsActive)
	if err != nil {
		return nil, fmt.Errorf("%s: id=%d: %w", op, id, mapErr(err))
	}

	return &g, nil
}

func (s *Storage) GetActiveGroups(ctx context.Context) ([]storage.ProductionGroup, error) {
	const op = "storage.mysql.GetActiveGroups"

	return s.queryGroups(ctx, op, `SELECT `+groupColumns+` FROM production_groups
		WHERE is_active = 1
		ORDER BY display_order, id`)
}

func (s *Storage) ListGroups(ctx context.Context) ([]storage.ProductionGroup, error) {
	const op = "storage.mysql.ListGroups"

	return s.queryGroups(ctx, op, `SELECT `+groupColumns+` FROM production_groups
		ORDER BY display_order, id`)
}

func (s *Storage) queryGroups(ctx context.Context, op, query string) ([]storage.ProductionGroup, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	groups := []storage.ProductionGroup{}
	for rows.Next() {
		var g storage.ProductionGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.DefaultCells, &g.RatePerCellPerHour, &g.DisplayOrder, &g.IsActive); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// SaveGroup ID == 0 создаёт группу, иначе обновляет. Возвращает ID.
func (s *Storage) SaveGroup(ctx context.Context, g storage.ProductionGroup) (int64, error) {
	const op = "storage.mysql.SaveGroup"

	if g.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO production_groups (name, default_cells, expected_output_per_cell_per_hour, display_order, is_active)
			VALUES (?, ?, ?, ?, ?)`,
			g.Name, g.DefaultCells, g.RatePerCellPerHour, g.DisplayOrder, g.IsActive)
		if err != nil {
			return 0, fmt.Errorf("%s: insert: %w", op, err)
		}
		return res.LastInsertId()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE production_groups
		SET name = ?, default_cells = ?, expected_output_per_cell_per_hour = ?, display_order = ?, is_active = ?
		WHERE id = ?`,
		g.Name, g.DefaultCells, g.RatePerCellPerHour, g.DisplayOrder, g.IsActive, g.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: update: %w", op, err)
	}
	// MySQL не считает строку затронутой, если значения не поменялись
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetGroup(ctx, g.ID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	return g.ID, nil
}

func (s *Storage) ListReasons(ctx context.Context, activeOnly bool) ([]storage.DeficitReason, error) {
	const op = "storage.mysql.ListReasons"

	query := `SELECT id, reason_text, display_order, is_active FROM deficit_reasons`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY display_order, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	reasons := []storage.DeficitReason{}
	for rows.Next() {
		var r storage.DeficitReason
		if err := rows.Scan(&r.ID, &r.ReasonText, &r.DisplayOrder, &r.IsActive); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		reasons = append(reasons, r)
	}

	return reasons, rows.Err()
}

func (s *Storage) SaveReason(ctx context.Context, r storage.DeficitReason) (int64, error) {
	const op = "storage.mysql.SaveReason"

	if r.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO deficit_reasons (reason_text, display_order, is_active) VALUES (?, ?, ?)`,
			r.ReasonText, r.DisplayOrder, r.IsActive)
		if err != nil {
			return 0, fmt.Errorf("%s: insert: %w", op, err)
		}
		return res.LastInsertId()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE deficit_reasons SET reason_text = ?, display_order = ?, is_active = ? WHERE id = ?`,
		r.ReasonText, r.DisplayOrder, r.IsActive, r.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: update: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM deficit_reasons WHERE id = ?`, r.ID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("%s: id=%d: %w", op, r.ID, mapErr(err))
		}
	}

	return r.ID, nil
}
