package storage

// DailySummary производная от production_entries по ключу (дата, группа). Руками не редактируется.
type DailySummary struct {
	ProductionDate       Date    `json:"production_date"`
	GroupID              int64   `json:"group_id"`
	TotalTarget          float64 `json:"total_target"`
	TotalActual          int     `json:"total_actual"`
	TotalDeficit         float64 `json:"total_deficit"`
	TotalExcess          float64 `json:"total_excess"`
	TotalDowntimeMinutes float64 `json:"total_downtime_minutes"`
	TotalManHours        float64 `json:"total_man_hours"`
	TotalManpowerAvg     float64 `json:"total_manpower_avg"`
	SeatsPerPerson       float64 `json:"seats_per_person"`
}

type SlotDetail struct {
	SlotNumber         int     `json:"slot_number"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	Label              string  `json:"label"`
	CellsOperative     int     `json:"cells_operative"`
	ManpowerHeadcount  int     `json:"manpower_headcount"`
	EffectiveMinutes   float64 `json:"effective_minutes"`
	TargetOutput       float64 `json:"target_output"`
	ActualOutput       int     `json:"actual_output"`
	Variance           float64 `json:"variance"`
	ReasonText         string  `json:"reason_text"`
	DeficitReasonOther string  `json:"deficit_reason_other"`
}

type GroupDaySummary struct {
	DailySummary
	GroupName   string          `json:"group_name"`
	SlotDetails []SlotDetail    `json:"slot_details"`
	Downtimes   []DowntimeEvent `json:"downtimes"`
}

type PlantTotal struct {
	TotalTarget          float64 `json:"total_target"`
	TotalActual          int     `json:"total_actual"`
	TotalDeficit         float64 `json:"total_deficit"`
	TotalExcess          float64 `json:"total_excess"`
	TotalDowntimeMinutes float64 `json:"total_downtime_minutes"`
	TotalManHours        float64 `json:"total_man_hours"`
	Variance             float64 `json:"variance"`
	VariancePct          float64 `json:"variance_pct"`
	SeatsPerPerson       float64 `json:"seats_per_person"`
}
