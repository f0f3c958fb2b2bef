package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/service/report"
	"line-tracker/internal/storage"
)

type DailyReporter interface {
	Daily(ctx context.Context, date storage.Date, groupID int64) (*report.DailyReport, error)
}

// GetSummary пересчитывает и отдаёт сводки за день по активным группам и итог по заводу.
func GetSummary(log *slog.Logger, reports DailyReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.summary.GetSummary"

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

		// пересчёт всех групп дольше обычного запроса
		ctx, cancel := context.WithTimeout(r.Context(), 2*respond.Timeout)
		defer cancel()

		daily, err := reports.Daily(ctx, date, groupID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, daily)
	}
}
