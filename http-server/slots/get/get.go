package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"line-tracker/http-server/respond"
	"line-tracker/internal/clock"
	"line-tracker/internal/service/target"
	"line-tracker/internal/storage"
)

type SlotResolver interface {
	ResolveTimeSlots(ctx context.Context, date storage.Date) ([]storage.TimeSlot, error)
	ResolveBreaks(ctx context.Context, date storage.Date, groupID *int64) ([]storage.Break, error)
	GetShiftWindow(ctx context.Context, date storage.Date) (storage.ShiftWindow, error)
}

type Slot struct {
	SlotNumber       int     `json:"slot_number"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Label            string  `json:"label"`
	EffectiveMinutes float64 `json:"effective_minutes"`
	DurationMinutes  float64 `json:"duration_minutes"`
}

type Response struct {
	Date    storage.Date        `json:"date"`
	DayType storage.DayType     `json:"day_type"`
	Shift   storage.ShiftWindow `json:"shift"`
	Slots   []Slot              `json:"slots"`
	Breaks  []storage.Break     `json:"breaks"`
}

// GetSlots слоты на дату с эффективными минутами. Без date берётся сегодняшний день.
func GetSlots(log *slog.Logger, resolver SlotResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.GetSlots"

		date, err := respond.DateOr(r, "date", storage.DateOf(time.Now()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		groupID, err := respond.GroupID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var gid *int64
		if groupID > 0 {
			gid = &groupID
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		var (
			slots  []storage.TimeSlot
			breaks []storage.Break
			shift  storage.ShiftWindow
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			slots, err = resolver.ResolveTimeSlots(gctx, date)
			return err
		})
		g.Go(func() (err error) {
			breaks, err = resolver.ResolveBreaks(gctx, date, gid)
			return err
		})
		g.Go(func() (err error) {
			shift, err = resolver.GetShiftWindow(gctx, date)
			return err
		})
		if err := g.Wait(); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		out := make([]Slot, 0, len(slots))
		for _, sl := range slots {
			eff, err := target.EffectiveMinutes(sl.Start, sl.End, breaks)
			if err != nil {
				respond.Error(w, log, op, err)
				return
			}
			dur, _ := clock.DurationMinutes(sl.Start, sl.End)

			out = append(out, Slot{
				SlotNumber:       sl.SlotNumber,
				StartTime:        sl.Start.HHMM(),
				EndTime:          sl.End.HHMM(),
				Label:            sl.Label,
				EffectiveMinutes: target.Round2(eff),
				DurationMinutes:  target.Round2(dur),
			})
		}

		render.JSON(w, r, Response{
			Date:    date,
			DayType: storage.DayTypeOf(date),
			Shift:   shift,
			Slots:   out,
			Breaks:  breaks,
		})
	}
}
