package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/storage"
)

type MasterDataProvider interface {
	ListGroups(ctx context.Context) ([]storage.ProductionGroup, error)
	GetActiveGroups(ctx context.Context) ([]storage.ProductionGroup, error)
	ListReasons(ctx context.Context, activeOnly bool) ([]storage.DeficitReason, error)
	GetDefaultShift(ctx context.Context, dayType storage.DayType) (*storage.ShiftWindow, error)
	GetDefaultSlots(ctx context.Context, dayType storage.DayType) ([]storage.TimeSlot, error)
	ListDefaultBreaks(ctx context.Context) ([]storage.Break, error)
}

// GetGroups activeOnly для экрана ввода, полный список для админки.
func GetGroups(log *slog.Logger, data MasterDataProvider, activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetGroups"

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		var (
			groups []storage.ProductionGroup
			err    error
		)
		if activeOnly {
			groups, err = data.GetActiveGroups(ctx)
		} else {
			groups, err = data.ListGroups(ctx)
		}
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, groups)
	}
}

func GetReasons(log *slog.Logger, data MasterDataProvider, activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetReasons"

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		reasons, err := data.ListReasons(ctx, activeOnly)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, reasons)
	}
}

// GetShiftSettings смена по умолчанию по типам дня. null, если в settings нет ключей.
func GetShiftSettings(log *slog.Logger, data MasterDataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetShiftSettings"

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		res := make(map[storage.DayType]*storage.ShiftWindow, 2)
		for _, dt := range []storage.DayType{storage.DaySunFri, storage.DaySat} {
			shift, err := data.GetDefaultShift(ctx, dt)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, log, op, err)
				return
			}
			res[dt] = shift
		}

		render.JSON(w, r, res)
	}
}

// GetDefaultSlots ?day_type=sun_fri|sat.
func GetDefaultSlots(log *slog.Logger, data MasterDataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetDefaultSlots"

		dayType := storage.DayType(r.URL.Query().Get("day_type"))
		if !dayType.Valid() {
			http.Error(w, "day_type must be sun_fri or sat", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		slots, err := data.GetDefaultSlots(ctx, dayType)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, slots)
	}
}

func GetDefaultBreaks(log *slog.Logger, data MasterDataProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetDefaultBreaks"

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		breaks, err := data.ListDefaultBreaks(ctx)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, breaks)
	}
}
