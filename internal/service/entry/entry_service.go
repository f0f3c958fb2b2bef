package entry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"line-tracker/internal/service/summary"
	"line-tracker/internal/service/target"
	"line-tracker/internal/storage"
)

type Store interface {
	GetGroup(ctx context.Context, id int64) (*storage.ProductionGroup, error)
	GetEntries(ctx context.Context, date storage.Date, groupID int64) ([]storage.ProductionEntry, error)
	GetEntry(ctx context.Context, id int64) (*storage.ProductionEntry, error)
	UpsertEntries(ctx context.Context, entries []storage.ProductionEntry) error
	DeleteEntry(ctx context.Context, id int64) error
}

type ScheduleResolver interface {
	ResolveTimeSlots(ctx context.Context, date storage.Date) ([]storage.TimeSlot, error)
	ResolveBreaks(ctx context.Context, date storage.Date, groupID *int64) ([]storage.Break, error)
}

type SummaryRecomputer interface {
	Locks() *summary.KeyLock
	RecomputeLocked(ctx context.Context, date storage.Date, groupID int64) (storage.DailySummary, error)
}

type Service struct {
	store    Store
	schedule ScheduleResolver
	summary  SummaryRecomputer
	log      *slog.Logger
}

func NewService(store Store, schedule ScheduleResolver, summary SummaryRecomputer, log *slog.Logger) *Service {
	return &Service{store: store, schedule: schedule, summary: summary, log: log}
}

type SaveResult struct {
	Saved   []storage.SavedSlot  `json:"saved"`
	Skipped []int                `json:"skipped_slots,omitempty"`
	Summary storage.DailySummary `json:"summary"`
}

// SaveEntries считает план и эффективные минуты по слотам, пишет записи одной транзакцией
// и пересчитывает сводку за день. Запись и пересчёт идут под одним замком (дата, группа).
func (s *Service) SaveEntries(ctx context.Context, req storage.SaveEntries) (*SaveResult, error) {
	const op = "service.entry.SaveEntries"

	if req.GroupID == 0 || req.Date.IsZero() || len(req.Entries) == 0 {
		return nil, fmt.Errorf("%s: дата, группа и записи обязательны: %w", op, storage.ErrInvalidInput)
	}

	var (
		group  *storage.ProductionGroup
		slots  []storage.TimeSlot
		breaks []storage.Break
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		group, err = s.store.GetGroup(gCtx, req.GroupID)
		if err != nil {
			return fmt.Errorf("group: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		slots, err = s.schedule.ResolveTimeSlots(gCtx, req.Date)
		if err != nil {
			return fmt.Errorf("slots: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		breaks, err = s.schedule.ResolveBreaks(gCtx, req.Date, &req.GroupID)
		if err != nil {
			return fmt.Errorf("breaks: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slotMap := make(map[int]storage.TimeSlot, len(slots))
	for _, sl := range slots {
		slotMap[sl.SlotNumber] = sl
	}

	result := &SaveResult{Saved: make([]storage.SavedSlot, 0, len(req.Entries))}
	rows := make([]storage.ProductionEntry, 0, len(req.Entries))

	var (
		cumTarget   float64
		cumActual   int
		cumDowntime float64
	)

	for i, in := range req.Entries {
		sl, ok := slotMap[in.SlotNumber]
		if !ok {
			// слота нет в расписании на эту дату
			result.Skipped = append(result.Skipped, in.SlotNumber)
			continue
		}

		row, err := buildEntry(req, in, group, sl, breaks)
		if err != nil {
			return nil, fmt.Errorf("%s: запись %d (слот %d): %w", op, i, in.SlotNumber, err)
		}
		rows = append(rows, row)

		cumTarget += row.TargetOutput
		cumActual += row.ActualOutput
		cumDowntime += row.DowntimeMinutes

		result.Saved = append(result.Saved, storage.SavedSlot{
			SlotNumber:         row.SlotNumber,
			TargetOutput:       row.TargetOutput,
			EffectiveMinutes:   row.EffectiveMinutes,
			ActualOutput:       row.ActualOutput,
			Variance:           target.Round2(float64(row.ActualOutput) - row.TargetOutput),
			DowntimeMinutes:    row.DowntimeMinutes,
			CumulativeTarget:   target.Round2(cumTarget),
			CumulativeActual:   cumActual,
			CumulativeVariance: target.Round2(float64(cumActual) - cumTarget),
			CumulativeDowntime: target.Round2(cumDowntime),
		})
	}

	unlock := s.summary.Locks().Lock(req.Date, req.GroupID)
	defer unlock()

	if len(rows) > 0 {
		if err := s.store.UpsertEntries(ctx, rows); err != nil {
			return nil, fmt.Errorf("%s: сохранение записей: %w", op, err)
		}
	}

	sum, err := s.summary.RecomputeLocked(ctx, req.Date, req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("%s: пересчёт сводки: %w", op, err)
	}
	result.Summary = sum

	s.log.Info("записи сохранены",
		slog.String("op", op),
		slog.String("date", req.Date.String()),
		slog.Int64("group_id", req.GroupID),
		slog.Int("saved", len(rows)),
		slog.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

func buildEntry(req storage.SaveEntries, in storage.EntryInput, group *storage.ProductionGroup, sl storage.TimeSlot, breaks []storage.Break) (storage.ProductionEntry, error) {
	cells := group.DefaultCells
	if in.CellsOperative != nil {
		cells = *in.CellsOperative
	}

	manpower := deref(in.ManpowerHeadcount)
	actual := deref(in.ActualOutput)

	var downtime float64
	if in.DowntimeMinutes != nil {
		downtime = *in.DowntimeMinutes
	}

	if cells < 0 || manpower < 0 || actual < 0 || downtime < 0 {
		return storage.ProductionEntry{}, fmt.Errorf("отрицательные значения недопустимы: %w", storage.ErrInvalidInput)
	}

	effMin, err := target.EffectiveMinutes(sl.Start, sl.End, breaks)
	if err != nil {
		return storage.ProductionEntry{}, err
	}

	expected, err := target.Target(group.RatePerCellPerHour, effMin, cells)
	if err != nil {
		return storage.ProductionEntry{}, err
	}

	category := storage.DowntimeNone
	if in.DowntimeCategory != nil && in.DowntimeCategory.Valid() {
		category = *in.DowntimeCategory
	}

	var reasonID *int64
	if in.DeficitReasonID != nil && *in.DeficitReasonID > 0 {
		reasonID = in.DeficitReasonID
	}

	return storage.ProductionEntry{
		ProductionDate:     req.Date,
		GroupID:            req.GroupID,
		SlotNumber:         sl.SlotNumber,
		CellsOperative:     cells,
		ManpowerHeadcount:  manpower,
		ActualOutput:       actual,
		TargetOutput:       target.Round2(expected),
		EffectiveMinutes:   target.Round2(effMin),
		DeficitReasonID:    reasonID,
		DeficitReasonOther: trimmed(in.DeficitReasonOther),
		DowntimeMinutes:    target.Round2(downtime),
		DowntimeCategory:   category,
		DowntimeReason:     trimmed(in.DowntimeReason),
	}, nil
}

func (s *Service) GetEntries(ctx context.Context, date storage.Date, groupID int64) ([]storage.ProductionEntry, error) {
	const op = "service.entry.GetEntries"

	entries, err := s.store.GetEntries(ctx, date, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// DeleteEntry удаляет запись и пересчитывает сводку её дня.
func (s *Service) DeleteEntry(ctx context.Context, id int64) (storage.DailySummary, error) {
	const op = "service.entry.DeleteEntry"

	existing, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return storage.DailySummary{}, fmt.Errorf("%s: запись id=%d: %w", op, id, err)
	}

	unlock := s.summary.Locks().Lock(existing.ProductionDate, existing.GroupID)
	defer unlock()

	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return storage.DailySummary{}, fmt.Errorf("%s: удаление id=%d: %w", op, id, err)
	}

	sum, err := s.summary.RecomputeLocked(ctx, existing.ProductionDate, existing.GroupID)
	if err != nil {
		return storage.DailySummary{}, fmt.Errorf("%s: пересчёт сводки: %w", op, err)
	}

	return sum, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
