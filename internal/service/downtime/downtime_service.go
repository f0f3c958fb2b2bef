package downtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"line-tracker/internal/clock"
	"line-tracker/internal/service/target"
	"line-tracker/internal/storage"
)

type Store interface {
	GetGroup(ctx context.Context, id int64) (*storage.ProductionGroup, error)
	InsertDowntime(ctx context.Context, ev storage.DowntimeEvent) (int64, error)
	GetDowntime(ctx context.Context, id int64) (*storage.DowntimeEvent, error)
	UpdateDowntime(ctx context.Context, ev storage.DowntimeEvent) error
	DeleteDowntime(ctx context.Context, id int64) error
	ListDowntimes(ctx context.Context, date storage.Date, groupID int64) ([]storage.DowntimeEvent, error)
}

type SummaryComputer interface {
	ComputeDailySummary(ctx context.Context, date storage.Date, groupID int64) (storage.DailySummary, error)
}

type Service struct {
	store   Store
	summary SummaryComputer
	log     *slog.Logger
}

func NewService(store Store, summary SummaryComputer, log *slog.Logger) *Service {
	return &Service{store: store, summary: summary, log: log}
}

type List struct {
	Downtimes    []storage.DowntimeEvent `json:"downtimes"`
	TotalMinutes float64                 `json:"total_minutes"`
}

// Duration длительность события в минутах. Nil, если конец не задан или не позже начала.
func Duration(start clock.Clock, end *clock.Clock) *float64 {
	if end == nil || *end <= start {
		return nil
	}
	d, err := clock.DurationMinutes(start, *end)
	if err != nil {
		return nil
	}
	d = target.Round2(d)
	return &d
}

func normalizeCategory(c storage.DowntimeCategory) storage.DowntimeCategory {
	if c == "" || c == storage.DowntimeNone || !c.Valid() {
		return storage.DowntimeOther
	}
	return c
}

func (s *Service) Add(ctx context.Context, in storage.DowntimeInput) (int64, error) {
	const op = "service.downtime.Add"

	if in.Date.IsZero() || in.GroupID == 0 || in.Start == nil {
		return 0, fmt.Errorf("%s: дата, группа и начало обязательны: %w", op, storage.ErrInvalidInput)
	}

	if _, err := s.store.GetGroup(ctx, in.GroupID); err != nil {
		return 0, fmt.Errorf("%s: группа id=%d: %w", op, in.GroupID, err)
	}

	ev := storage.DowntimeEvent{
		ProductionDate:  in.Date,
		GroupID:         in.GroupID,
		Start:           *in.Start,
		End:             in.End,
		DurationMinutes: Duration(*in.Start, in.End),
		Reason:          strings.TrimSpace(in.Reason),
		Category:        normalizeCategory(in.Category),
	}

	id, err := s.store.InsertDowntime(ctx, ev)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.summary.ComputeDailySummary(ctx, in.Date, in.GroupID); err != nil {
		return id, fmt.Errorf("%s: пересчёт сводки: %w", op, err)
	}

	s.log.Info("простой добавлен",
		slog.String("op", op),
		slog.Int64("id", id),
		slog.String("date", in.Date.String()),
		slog.Int64("group_id", in.GroupID),
	)

	return id, nil
}

// Update меняет конец, причину и категорию. Длительность считается от сохранённого начала.
func (s *Service) Update(ctx context.Context, upd storage.DowntimeUpdate) error {
	const op = "service.downtime.Update"

	existing, err := s.store.GetDowntime(ctx, upd.ID)
	if err != nil {
		return fmt.Errorf("%s: простой id=%d: %w", op, upd.ID, err)
	}

	existing.End = upd.End
	existing.DurationMinutes = Duration(existing.Start, upd.End)
	existing.Reason = strings.TrimSpace(upd.Reason)
	existing.Category = normalizeCategory(upd.Category)

	if err := s.store.UpdateDowntime(ctx, *existing); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.summary.ComputeDailySummary(ctx, existing.ProductionDate, existing.GroupID); err != nil {
		return fmt.Errorf("%s: пересчёт сводки: %w", op, err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "service.downtime.Delete"

	existing, err := s.store.GetDowntime(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: простой id=%d: %w", op, id, err)
	}

	if err := s.store.DeleteDowntime(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.summary.ComputeDailySummary(ctx, existing.ProductionDate, existing.GroupID); err != nil {
		return fmt.Errorf("%s: пересчёт сводки: %w", op, err)
	}

	return nil
}

// List события за день. Открытые события в сумму не входят.
func (s *Service) List(ctx context.Context, date storage.Date, groupID int64) (*List, error) {
	const op = "service.downtime.List"

	events, err := s.store.ListDowntimes(ctx, date, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var total float64
	for _, ev := range events {
		if ev.DurationMinutes != nil {
			total += *ev.DurationMinutes
		}
	}

	return &List{Downtimes: events, TotalMinutes: target.Round2(total)}, nil
}
