package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"line-tracker/internal/clock"
	"line-tracker/internal/config"
	"line-tracker/internal/storage"
)

type Store interface {
	GetDefaultSlots(ctx context.Context, dayType storage.DayType) ([]storage.TimeSlot, error)
	GetDateSlotOverrides(ctx context.Context, date storage.Date) ([]storage.TimeSlot, error)
	GetDefaultBreaks(ctx context.Context, dayType storage.DayType, groupID *int64) ([]storage.Break, error)
	GetDateBreaks(ctx context.Context, date storage.Date, groupID *int64) ([]storage.Break, error)
	GetShiftOverride(ctx context.Context, date storage.Date) (*storage.ShiftWindow, error)
	GetDefaultShift(ctx context.Context, dayType storage.DayType) (*storage.ShiftWindow, error)
}

type Resolver struct {
	store    Store
	log      *slog.Logger
	defaults map[storage.DayType]storage.ShiftWindow
}

// NewResolver дефолты смены передаются явно, чтобы не ходить за глобальными настройками.
func NewResolver(store Store, log *slog.Logger, shift config.ShiftDefaults) (*Resolver, error) {
	const op = "service.schedule.NewResolver"

	pairs := map[storage.DayType][2]string{
		storage.DaySunFri: {shift.SunFriStart, shift.SunFriEnd},
		storage.DaySat:    {shift.SatStart, shift.SatEnd},
	}

	defaults := make(map[storage.DayType]storage.ShiftWindow, len(pairs))
	for dt, p := range pairs {
		start, err := clock.Parse(p[0])
		if err != nil {
			return nil, fmt.Errorf("%s: начало смены %s: %w", op, dt, err)
		}
		end, err := clock.Parse(p[1])
		if err != nil {
			return nil, fmt.Errorf("%s: конец смены %s: %w", op, dt, err)
		}
		if err := clock.Validate(start, end); err != nil {
			return nil, fmt.Errorf("%s: смена %s: %w", op, dt, err)
		}
		defaults[dt] = storage.ShiftWindow{Start: start, End: end}
	}

	return &Resolver{store: store, log: log, defaults: defaults}, nil
}

// ResolveTimeSlots слоты на дату, по номеру слота.
//
// Переопределение на дату работает по принципу всё-или-ничего: если на дату есть хотя бы
// один слот, возвращаются только они, без слияния с дефолтами дня недели.
func (r *Resolver) ResolveTimeSlots(ctx context.Context, date storage.Date) ([]storage.TimeSlot, error) {
	const op = "service.schedule.ResolveTimeSlots"

	overrides, err := r.store.GetDateSlotOverrides(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: слоты на дату %s: %w", op, date, err)
	}

	slots := overrides
	if len(overrides) == 0 {
		slots, err = r.store.GetDefaultSlots(ctx, storage.DayTypeOf(date))
		if err != nil {
			return nil, fmt.Errorf("%s: дефолтные слоты: %w", op, err)
		}
	}

	valid := make([]storage.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if err := clock.Validate(s.Start, s.End); err != nil {
			r.log.Warn("слот пропущен", slog.String("op", op), slog.String("date", date.String()),
				slog.Int("slot", s.SlotNumber), slog.String("error", err.Error()))
			continue
		}
		valid = append(valid, s)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].SlotNumber < valid[j].SlotNumber
	})

	return valid, nil
}

// ResolveBreaks сначала перерывы на дату, потом дефолтные.
// Обед на дату заменяет дефолтный обед, остальные типы складываются.
func (r *Resolver) ResolveBreaks(ctx context.Context, date storage.Date, groupID *int64) ([]storage.Break, error) {
	const op = "service.schedule.ResolveBreaks"

	dateBreaks, err := r.store.GetDateBreaks(ctx, date, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: перерывы на дату %s: %w", op, date, err)
	}

	defaultBreaks, err := r.store.GetDefaultBreaks(ctx, storage.DayTypeOf(date), groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: дефолтные перерывы: %w", op, err)
	}

	hasDateLunch := false
	for _, b := range dateBreaks {
		if b.BreakType == storage.BreakLunch {
			hasDateLunch = true
			break
		}
	}

	result := make([]storage.Break, 0, len(dateBreaks)+len(defaultBreaks))
	for _, b := range dateBreaks {
		if r.validBreak(op, date, b) {
			result = append(result, b)
		}
	}
	for _, b := range defaultBreaks {
		if hasDateLunch && b.BreakType == storage.BreakLunch {
			continue
		}
		if r.validBreak(op, date, b) {
			result = append(result, b)
		}
	}

	return result, nil
}

func (r *Resolver) validBreak(op string, date storage.Date, b storage.Break) bool {
	if err := clock.Validate(b.Start, b.End); err != nil {
		r.log.Warn("перерыв пропущен", slog.String("op", op), slog.String("date", date.String()),
			slog.Int64("break_id", b.ID), slog.String("error", err.Error()))
		return false
	}
	return true
}

// GetShiftWindow переопределение на дату, иначе настройки из базы, иначе конфиг.
func (r *Resolver) GetShiftWindow(ctx context.Context, date storage.Date) (storage.ShiftWindow, error) {
	const op = "service.schedule.GetShiftWindow"

	override, err := r.store.GetShiftOverride(ctx, date)
	switch {
	case err == nil && override != nil:
		w := *override
		w.IsOverride = true
		return w, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return storage.ShiftWindow{}, fmt.Errorf("%s: смена на дату %s: %w", op, date, err)
	}

	dayType := storage.DayTypeOf(date)

	stored, err := r.store.GetDefaultShift(ctx, dayType)
	switch {
	case err == nil && stored != nil && clock.Validate(stored.Start, stored.End) == nil:
		return storage.ShiftWindow{Start: stored.Start, End: stored.End}, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return storage.ShiftWindow{}, fmt.Errorf("%s: смена по умолчанию: %w", op, err)
	}

	return r.defaults[dayType], nil
}

// DayType удобство для хендлеров.
func (r *Resolver) DayType(date storage.Date) storage.DayType {
	return storage.DayTypeOf(date)
}
