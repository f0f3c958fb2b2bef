package report

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"line-tracker/internal/service/target"
	"line-tracker/internal/storage"
)

type Store interface {
	GetActiveGroups(ctx context.Context) ([]storage.ProductionGroup, error)
	GetEntries(ctx context.Context, date storage.Date, groupID int64) ([]storage.ProductionEntry, error)
	ListDowntimes(ctx context.Context, date storage.Date, groupID int64) ([]storage.DowntimeEvent, error)

	DailyTotals(ctx context.Context, f storage.ReportFilter) ([]storage.DayTotals, error)
	GroupTotals(ctx context.Context, f storage.ReportFilter) ([]storage.GroupTotals, error)
	SummaryRows(ctx context.Context, f storage.ReportFilter) ([]storage.SummaryRow, error)
	DeficitByReason(ctx context.Context, f storage.ReportFilter) ([]storage.DeficitByReason, error)
	DeficitEntries(ctx context.Context, f storage.ReportFilter, reasonID *int64) ([]storage.DeficitEntry, error)
	DeficitOtherTexts(ctx context.Context, f storage.ReportFilter) ([]storage.DeficitOther, error)
	DowntimeByCategory(ctx context.Context, f storage.ReportFilter) ([]storage.DowntimeByCategory, error)
	DowntimeLog(ctx context.Context, f storage.ReportFilter, sort storage.DowntimeSort, asc bool) ([]storage.DowntimeEvent, error)
}

type SummaryComputer interface {
	ComputeDailySummary(ctx context.Context, date storage.Date, groupID int64) (storage.DailySummary, error)
}

type SlotResolver interface {
	ResolveTimeSlots(ctx context.Context, date storage.Date) ([]storage.TimeSlot, error)
}

type Service struct {
	store    Store
	summary  SummaryComputer
	schedule SlotResolver
	workers  int
	log      *slog.Logger
}

// NewService workers ограничивает число параллельных пересчётов сводок.
func NewService(store Store, summary SummaryComputer, schedule SlotResolver, workers int, log *slog.Logger) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{store: store, summary: summary, schedule: schedule, workers: workers, log: log}
}

type DailyReport struct {
	Date       storage.Date              `json:"date"`
	Groups     []storage.GroupDaySummary `json:"groups"`
	PlantTotal storage.PlantTotal        `json:"plant_total"`
}

// Daily пересчитывает сводки активных групп за день и собирает итог по заводу.
// groupID == 0 означает все активные группы.
func (s *Service) Daily(ctx context.Context, date storage.Date, groupID int64) (*DailyReport, error) {
	const op = "service.report.Daily"

	groups, err := s.store.GetActiveGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: группы: %w", op, err)
	}
	if groupID != 0 {
		groups = filterGroups(groups, groupID)
	}

	slots, err := s.schedule.ResolveTimeSlots(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: слоты: %w", op, err)
	}
	slotMap := make(map[int]storage.TimeSlot, len(slots))
	for _, sl := range slots {
		slotMap[sl.SlotNumber] = sl
	}

	out := make([]storage.GroupDaySummary, len(groups))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, grp := range groups {
		g.Go(func() error {
			sum, err := s.summary.ComputeDailySummary(gCtx, date, grp.ID)
			if err != nil {
				return fmt.Errorf("сводка группы id=%d: %w", grp.ID, err)
			}

			entries, err := s.store.GetEntries(gCtx, date, grp.ID)
			if err != nil {
				return fmt.Errorf("записи группы id=%d: %w", grp.ID, err)
			}

			downtimes, err := s.store.ListDowntimes(gCtx, date, grp.ID)
			if err != nil {
				return fmt.Errorf("простои группы id=%d: %w", grp.ID, err)
			}
			if downtimes == nil {
				downtimes = []storage.DowntimeEvent{}
			}

			out[i] = storage.GroupDaySummary{
				DailySummary: sum,
				GroupName:    grp.Name,
				SlotDetails:  slotDetails(entries, slotMap),
				Downtimes:    downtimes,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &DailyReport{Date: date, Groups: out, PlantTotal: PlantTotals(out)}, nil
}

func slotDetails(entries []storage.ProductionEntry, slotMap map[int]storage.TimeSlot) []storage.SlotDetail {
	details := make([]storage.SlotDetail, 0, len(entries))
	for _, e := range entries {
		d := storage.SlotDetail{
			SlotNumber:        e.SlotNumber,
			CellsOperative:    e.CellsOperative,
			ManpowerHeadcount: e.ManpowerHeadcount,
			EffectiveMinutes:  e.EffectiveMinutes,
			TargetOutput:      e.TargetOutput,
			ActualOutput:      e.ActualOutput,
			Variance:          target.Round2(float64(e.ActualOutput) - e.TargetOutput),
		}
		// слот мог пропасть из расписания после сохранения записи
		if sl, ok := slotMap[e.SlotNumber]; ok {
			d.StartTime = sl.Start.HHMM()
			d.EndTime = sl.End.HHMM()
			d.Label = sl.Label
		}
		if e.ReasonText != nil {
			d.ReasonText = *e.ReasonText
		}
		if e.DeficitReasonOther != nil {
			d.DeficitReasonOther = *e.DeficitReasonOther
		}
		details = append(details, d)
	}
	return details
}

// PlantTotals суммы по группам, отклонение в процентах и выработка на человеко-час.
func PlantTotals(groups []storage.GroupDaySummary) storage.PlantTotal {
	var t storage.PlantTotal
	for _, g := range groups {
		t.TotalTarget += g.TotalTarget
		t.TotalActual += g.TotalActual
		t.TotalDeficit += g.TotalDeficit
		t.TotalExcess += g.TotalExcess
		t.TotalDowntimeMinutes += g.TotalDowntimeMinutes
		t.TotalManHours += g.TotalManHours
	}

	t.TotalTarget = target.Round2(t.TotalTarget)
	t.TotalDeficit = target.Round2(t.TotalDeficit)
	t.TotalExcess = target.Round2(t.TotalExcess)
	t.TotalDowntimeMinutes = target.Round2(t.TotalDowntimeMinutes)
	t.TotalManHours = target.Round2(t.TotalManHours)

	t.Variance = target.Round2(float64(t.TotalActual) - t.TotalTarget)
	t.VariancePct = percent(t.Variance, t.TotalTarget)
	if t.TotalManHours > 0 {
		t.SeatsPerPerson = target.Round2(float64(t.TotalActual) / t.TotalManHours)
	}
	return t
}

func filterGroups(groups []storage.ProductionGroup, id int64) []storage.ProductionGroup {
	for _, g := range groups {
		if g.ID == id {
			return []storage.ProductionGroup{g}
		}
	}
	return nil
}

// percent part/whole*100 с одним знаком, 0 при нулевом знаменателе.
func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return target.Round1(part / whole * 100)
}
