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

type Reports interface {
	Weekly(ctx context.Context, weekOf storage.Date, groupID int64) (*report.WeeklyReport, error)
	Monthly(ctx context.Context, year, month int, groupID int64) (*report.MonthlyReport, error)
	LineComparison(ctx context.Context, from, to storage.Date) (*report.LineComparison, error)
	Manpower(ctx context.Context, f storage.ReportFilter) (*report.ManpowerReport, error)
	Deficit(ctx context.Context, f storage.ReportFilter) (*report.DeficitReport, error)
	Downtime(ctx context.Context, f storage.ReportFilter, sort storage.DowntimeSort, asc bool) (*report.DowntimeReport, error)
}

// недельный отчёт может пересчитывать до семи дней
const reportTimeout = 15 * time.Second

func Weekly(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.Weekly"

		weekOf, err := respond.DateOr(r, "week_start", storage.DateOf(time.Now()))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		groupID, err := respond.GroupID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
		defer cancel()

		res, err := reports.Weekly(ctx, weekOf, groupID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}

func Monthly(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.Monthly"

		year, month, err := respond.YearMonth(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		groupID, err := respond.GroupID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
		defer cancel()

		res, err := reports.Monthly(ctx, year, month, groupID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}

func LineComparison(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.LineComparison"

		f, err := respond.Filter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
		defer cancel()

		res, err := reports.LineComparison(ctx, f.From, f.To)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}

func Manpower(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.Manpower"

		f, err := respond.Filter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
		defer cancel()

		res, err := reports.Manpower(ctx, f)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}

func Deficit(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.Deficit"

		f, err := respond.Filter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
		defer cancel()

		res, err := reports.Deficit(ctx, f)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}

// Downtime sort одна из колонок storage.DowntimeSort, order=asc|desc (по умолчанию desc).
func Downtime(log *slog.Logger, reports Reports) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.Downtime"

		f, err := respond.Filter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sort := storage.DowntimeSort(r.URL.Query().Get("sort"))
		asc := r.URL.Query().Get("order") == "asc"

		ctx, cancel := context.WithTimeout(r.Context(), reportTimeout)
		defer cancel()

		res, err := reports.Downtime(ctx, f, sort, asc)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
