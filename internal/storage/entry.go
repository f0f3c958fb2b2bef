package storage

type DowntimeCategory string

const (
	DowntimeNone       DowntimeCategory = "none"
	DowntimeMechanical DowntimeCategory = "mechanical"
	DowntimeElectrical DowntimeCategory = "electrical"
	DowntimeMaterial   DowntimeCategory = "material"
	DowntimeManpower   DowntimeCategory = "manpower"
	DowntimeQuality    DowntimeCategory = "quality"
	DowntimeOther      DowntimeCategory = "other"
)

// DowntimeCategories порядок для отчётов.
var DowntimeCategories = []DowntimeCategory{
	DowntimeMechanical, DowntimeElectrical, DowntimeMaterial, DowntimeManpower, DowntimeQuality, DowntimeOther,
}

func (c DowntimeCategory) Valid() bool {
	if c == DowntimeNone {
		return true
	}
	for _, v := range DowntimeCategories {
		if c == v {
			return true
		}
	}
	return false
}

type ProductionEntry struct {
	ID                 int64            `json:"id"`
	ProductionDate     Date             `json:"production_date"`
	GroupID            int64            `json:"group_id"`
	SlotNumber         int              `json:"slot_number"`
	CellsOperative     int              `json:"cells_operative"`
	ManpowerHeadcount  int              `json:"manpower_headcount"`
	ActualOutput       int              `json:"actual_output"`
	TargetOutput       float64          `json:"target_output"`
	EffectiveMinutes   float64          `json:"effective_minutes"`
	DeficitReasonID    *int64           `json:"deficit_reason_id"`
	DeficitReasonOther *string          `json:"deficit_reason_other"`
	DowntimeMinutes    float64          `json:"downtime_minutes"`
	DowntimeCategory   DowntimeCategory `json:"downtime_category"`
	DowntimeReason     *string          `json:"downtime_reason"`

	// только на чтение, из deficit_reasons
	ReasonText *string `json:"reason_text,omitempty"`
}

// EntryInput то, что присылает оператор по слоту. Nil -> значение по умолчанию.
type EntryInput struct {
	SlotNumber         int               `json:"slot_number"`
	CellsOperative     *int              `json:"cells_operative"`
	ManpowerHeadcount  *int              `json:"manpower_headcount"`
	ActualOutput       *int              `json:"actual_output"`
	DeficitReasonID    *int64            `json:"deficit_reason_id"`
	DeficitReasonOther *string           `json:"deficit_reason_other"`
	DowntimeMinutes    *float64          `json:"downtime_minutes"`
	DowntimeCategory   *DowntimeCategory `json:"downtime_category"`
	DowntimeReason     *string           `json:"downtime_reason"`
}

type SaveEntries struct {
	Date    Date         `json:"date"`
	GroupID int64        `json:"group_id"`
	Entries []EntryInput `json:"entries"`
}

// SavedSlot ответ по сохранённому слоту с нарастающими итогами.
type SavedSlot struct {
	SlotNumber         int     `json:"slot_number"`
	TargetOutput       float64 `json:"target_output"`
	EffectiveMinutes   float64 `json:"effective_minutes"`
	ActualOutput       int     `json:"actual_output"`
	Variance           float64 `json:"variance"`
	DowntimeMinutes    float64 `json:"downtime_minutes"`
	CumulativeTarget   float64 `json:"cumulative_target"`
	CumulativeActual   int     `json:"cumulative_actual"`
	CumulativeVariance float64 `json:"cumulative_variance"`
	CumulativeDowntime float64 `json:"cumulative_downtime"`
}
