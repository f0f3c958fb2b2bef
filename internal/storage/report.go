package storage

// ReportFilter GroupID == 0 означает все группы.
type ReportFilter struct {
	From    Date  `json:"from"`
	To      Date  `json:"to"`
	GroupID int64 `json:"group_id"`
}

type DayTotals struct {
	Date     Date    `json:"date"`
	Target   float64 `json:"target"`
	Actual   int     `json:"actual"`
	Downtime float64 `json:"downtime"`
	ManHours float64 `json:"man_hours"`
}

type GroupTotals struct {
	GroupID     int64   `json:"group_id"`
	GroupName   string  `json:"group_name"`
	Target      float64 `json:"total_target"`
	Actual      int     `json:"total_actual"`
	Downtime    float64 `json:"total_downtime"`
	ManHours    float64 `json:"total_man_hours"`
	AvgManpower float64 `json:"avg_manpower"`
	DaysWorked  int     `json:"days_worked"`
}

// SummaryRow строка daily_summaries с именем группы.
type SummaryRow struct {
	DailySummary
	GroupName string `json:"group_name"`
}

type DeficitByReason struct {
	ReasonID     *int64 `json:"reason_id"`
	ReasonText   string `json:"reason_text"`
	TotalDeficit int    `json:"total_deficit"`
	Occurrences  int    `json:"occurrences"`
}

// DeficitEntry слот с недовыполнением для разбивки по причине.
type DeficitEntry struct {
	ProductionDate Date   `json:"production_date"`
	SlotNumber     int    `json:"slot_number"`
	GroupID        int64  `json:"group_id"`
	GroupName      string `json:"group_name"`
	Deficit        int    `json:"deficit"`
}

type DeficitOther struct {
	Text         string `json:"text"`
	Frequency    int    `json:"frequency"`
	TotalDeficit int    `json:"total_deficit"`
}

type DowntimeByCategory struct {
	Category     DowntimeCategory `json:"category"`
	EventCount   int              `json:"event_count"`
	TotalMinutes float64          `json:"total_minutes"`
}

// DowntimeSort колонки, по которым можно сортировать журнал простоев.
type DowntimeSort string

const (
	SortByDate     DowntimeSort = "production_date"
	SortByGroup    DowntimeSort = "group_name"
	SortByStart    DowntimeSort = "start_time"
	SortByDuration DowntimeSort = "duration"
	SortByCategory DowntimeSort = "category"
)

func (s DowntimeSort) Valid() bool {
	switch s {
	case SortByDate, SortByGroup, SortByStart, SortByDuration, SortByCategory:
		return true
	}
	return false
}
