package storage

import (
	"time"

	"line-tracker/internal/clock"
)

type DayType string

const (
	DaySunFri DayType = "sun_fri"
	DaySat    DayType = "sat"
	// DayAll только для дефолтных перерывов.
	DayAll DayType = "all"
)

// DayTypeOf суббота -> sat, остальные дни -> sun_fri.
func DayTypeOf(d Date) DayType {
	if d.Weekday() == time.Saturday {
		return DaySat
	}
	return DaySunFri
}

func (t DayType) Valid() bool {
	return t == DaySunFri || t == DaySat
}

type TimeSlot struct {
	SlotNumber int         `json:"slot_number"`
	Start      clock.Clock `json:"start_time"`
	End        clock.Clock `json:"end_time"`
	Label      string      `json:"label"`
}

type BreakType string

const (
	BreakLunch BreakType = "lunch"
	BreakTea   BreakType = "tea"
	BreakOther BreakType = "other"
)

func (t BreakType) Valid() bool {
	switch t {
	case BreakLunch, BreakTea, BreakOther:
		return true
	}
	return false
}

type Break struct {
	ID             int64       `json:"id"`
	BreakType      BreakType   `json:"type"`
	Label          string      `json:"label"`
	Start          clock.Clock `json:"start"`
	End            clock.Clock `json:"end"`
	IsDefault      bool        `json:"is_default"`
	DayType        DayType     `json:"day_type,omitempty"`
	ProductionDate *Date       `json:"production_date,omitempty"`
	GroupID        *int64      `json:"group_id,omitempty"`
}

type ShiftWindow struct {
	Start      clock.Clock `json:"start"`
	End        clock.Clock `json:"end"`
	Notes      string      `json:"notes"`
	IsOverride bool        `json:"is_override"`
}

// DailyConfig все переопределения на конкретную дату.
type DailyConfig struct {
	Date           Date         `json:"date"`
	ShiftOverride  *ShiftWindow `json:"shift_override"`
	SlotOverrides  []TimeSlot   `json:"slot_overrides"`
	BreakOverrides []Break      `json:"break_overrides"`
}
