package summary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"line-tracker/internal/metrics"
	"line-tracker/internal/storage"
)

type EntryStore interface {
	GetEntries(ctx context.Context, date storage.Date, groupID int64) ([]storage.ProductionEntry, error)
}

type SummaryStore interface {
	UpsertSummary(ctx context.Context, summary storage.DailySummary) error
	GetSummary(ctx context.Context, date storage.Date, groupID int64) (*storage.DailySummary, error)
}

type GroupStore interface {
	GetGroup(ctx context.Context, id int64) (*storage.ProductionGroup, error)
}

type Store interface {
	EntryStore
	SummaryStore
	GroupStore
}

// Aggregator пересчитывает сводку за день целиком из записей. Инкрементально не обновляем.
type Aggregator struct {
	store Store
	locks *KeyLock
	log   *slog.Logger
}

func NewAggregator(store Store, log *slog.Logger) *Aggregator {
	return &Aggregator{store: store, locks: NewKeyLock(), log: log}
}

// Locks общий замок по ключу для тех, кто пишет записи и сразу пересчитывает сводку.
func (a *Aggregator) Locks() *KeyLock {
	return a.locks
}

// ComputeDailySummary пересчитать, сохранить и вернуть сводку. Повторный вызов без изменений
// записей даёт тот же результат.
func (a *Aggregator) ComputeDailySummary(ctx context.Context, date storage.Date, groupID int64) (storage.DailySummary, error) {
	unlock := a.locks.Lock(date, groupID)
	defer unlock()

	return a.RecomputeLocked(ctx, date, groupID)
}

// RecomputeLocked то же самое, но замок по ключу уже взят вызывающим.
func (a *Aggregator) RecomputeLocked(ctx context.Context, date storage.Date, groupID int64) (storage.DailySummary, error) {
	const op = "service.summary.RecomputeLocked"

	started := time.Now()
	defer func() {
		metrics.SummaryRecomputeDuration.Observe(time.Since(started).Seconds())
	}()

	if _, err := a.store.GetGroup(ctx, groupID); err != nil {
		metrics.SummaryRecomputeTotal.WithLabelValues("error").Inc()
		return storage.DailySummary{}, fmt.Errorf("%s: группа id=%d: %w", op, groupID, err)
	}

	entries, err := a.store.GetEntries(ctx, date, groupID)
	if err != nil {
		metrics.SummaryRecomputeTotal.WithLabelValues("error").Inc()
		return storage.DailySummary{}, fmt.Errorf("%s: записи за %s группы id=%d: %w", op, date, groupID, err)
	}

	summary := Compute(date, groupID, entries)

	if err := a.store.UpsertSummary(ctx, summary); err != nil {
		metrics.SummaryRecomputeTotal.WithLabelValues("error").Inc()
		return storage.DailySummary{}, fmt.Errorf("%s: сохранение сводки за %s группы id=%d: %w", op, date, groupID, err)
	}

	metrics.SummaryRecomputeTotal.WithLabelValues("ok").Inc()
	a.log.Debug("сводка пересчитана",
		slog.String("op", op),
		slog.String("date", date.String()),
		slog.Int64("group_id", groupID),
		slog.Int("slots", len(entries)),
	)

	return summary, nil
}

// GetSummary сохранённая сводка, ErrNotFound если её ещё нет.
func (a *Aggregator) GetSummary(ctx context.Context, date storage.Date, groupID int64) (*storage.DailySummary, error) {
	return a.store.GetSummary(ctx, date, groupID)
}

// Compute свёртка записей в сводку без обращения к базе. Значения округлены до 2 знаков,
// дефицит и излишек считаются от округлённого плана, поэтому ровно один из них не ноль.
func Compute(date storage.Date, groupID int64, entries []storage.ProductionEntry) storage.DailySummary {
	var (
		totalTarget   float64
		totalActual   int
		totalManHours float64
		totalManpower int
		totalDowntime float64
		slotCount     int
	)

	for _, e := range entries {
		totalTarget += e.TargetOutput
		totalActual += e.ActualOutput
		totalManHours += float64(e.ManpowerHeadcount) * (e.EffectiveMinutes / 60.0)
		totalManpower += e.ManpowerHeadcount
		totalDowntime += e.DowntimeMinutes
		slotCount++
	}

	target := decimal.NewFromFloat(totalTarget).Round(2)
	variance := decimal.NewFromInt(int64(totalActual)).Sub(target)

	deficit, excess := decimal.Zero, decimal.Zero
	if variance.IsNegative() {
		deficit = variance.Neg()
	} else {
		excess = variance
	}

	var avgManpower float64
	if slotCount > 0 {
		avgManpower = float64(totalManpower) / float64(slotCount)
	}

	var seatsPerPerson float64
	if totalManHours > 0 {
		seatsPerPerson = float64(totalActual) / totalManHours
	}

	return storage.DailySummary{
		ProductionDate:       date,
		GroupID:              groupID,
		TotalTarget:          target.InexactFloat64(),
		TotalActual:          totalActual,
		TotalDeficit:         deficit.InexactFloat64(),
		TotalExcess:          excess.InexactFloat64(),
		TotalDowntimeMinutes: round2(totalDowntime),
		TotalManHours:        round2(totalManHours),
		TotalManpowerAvg:     round2(avgManpower),
		SeatsPerPerson:       round2(seatsPerPerson),
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
