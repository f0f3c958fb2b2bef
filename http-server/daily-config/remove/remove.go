package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/storage"
)

type DailyConfigDeleter interface {
	DeleteShiftOverride(ctx context.Context, date storage.Date) error
	DeleteBreak(ctx context.Context, id int64, isDefault bool) error
}

// DeleteShift DELETE /daily-config/shift?date= возвращает дату к смене по умолчанию.
func DeleteShift(log *slog.Logger, cfg DailyConfigDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dailyconfig.DeleteShift"

		date, err := respond.Date(r, "date")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := cfg.DeleteShiftOverride(ctx, date); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]bool{"success": true})
	}
}

// DeleteBreak DELETE /daily-config/breaks/{id}, дефолтные перерывы так не удаляются.
func DeleteBreak(log *slog.Logger, cfg DailyConfigDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dailyconfig.DeleteBreak"

		id, err := respond.PathID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := cfg.DeleteBreak(ctx, id, false); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]bool{"success": true})
	}
}
