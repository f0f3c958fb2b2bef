package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"line-tracker/http-server/respond"
	"line-tracker/internal/storage"
)

type DailyConfigProvider interface {
	GetShiftOverride(ctx context.Context, date storage.Date) (*storage.ShiftWindow, error)
	GetDateSlotOverrides(ctx context.Context, date storage.Date) ([]storage.TimeSlot, error)
	ListDateBreaks(ctx context.Context, date storage.Date) ([]storage.Break, error)
}

// GetDailyConfig все переопределения на дату. shift_override == null, если смена не переопределена.
func GetDailyConfig(log *slog.Logger, cfg DailyConfigProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dailyconfig.GetDailyConfig"

		date, err := respond.Date(r, "date")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		res := storage.DailyConfig{Date: date}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			shift, err := cfg.GetShiftOverride(gctx, date)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			res.ShiftOverride = shift
			return err
		})
		g.Go(func() (err error) {
			res.SlotOverrides, err = cfg.GetDateSlotOverrides(gctx, date)
			return err
		})
		g.Go(func() (err error) {
			res.BreakOverrides, err = cfg.ListDateBreaks(gctx, date)
			return err
		})
		if err := g.Wait(); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
