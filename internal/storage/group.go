package storage

type ProductionGroup struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	DefaultCells       int     `json:"default_cells"`
	RatePerCellPerHour float64 `json:"rate_per_cell_per_hour"`
	DisplayOrder       int     `json:"display_order"`
	IsActive           bool    `json:"is_active"`
}

type DeficitReason struct {
	ID           int64  `json:"id"`
	ReasonText   string `json:"reason_text"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}
