package storage

import "line-tracker/internal/clock"

// DowntimeEvent журнал простоев по группе за день. С per-slot downtime_minutes не сводится.
type DowntimeEvent struct {
	ID              int64            `json:"id"`
	ProductionDate  Date             `json:"production_date"`
	GroupID         int64            `json:"group_id"`
	Start           clock.Clock      `json:"start_time"`
	End             *clock.Clock     `json:"end_time"`
	DurationMinutes *float64         `json:"duration_minutes"`
	Reason          string           `json:"reason"`
	Category        DowntimeCategory `json:"category"`
	GroupName       string           `json:"group_name,omitempty"`
}

// DowntimeInput Start указатель: без start_time событие не принимается.
type DowntimeInput struct {
	Date     Date             `json:"date"`
	GroupID  int64            `json:"group_id"`
	Start    *clock.Clock     `json:"start_time"`
	End      *clock.Clock     `json:"end_time"`
	Reason   string           `json:"reason"`
	Category DowntimeCategory `json:"category"`
}

type DowntimeUpdate struct {
	ID       int64            `json:"id"`
	End      *clock.Clock     `json:"end_time"`
	Reason   string           `json:"reason"`
	Category DowntimeCategory `json:"category"`
}
