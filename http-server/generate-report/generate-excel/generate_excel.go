package generate_excel

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"line-tracker/http-server/respond"
	genexcel "line-tracker/internal/service/generate-excel"
	"line-tracker/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, req genexcel.Request) ([]byte, string, error)
}

// GenerateReportExcel GET /reports/excel?kind=weekly|monthly|line-comparison|manpower|deficit|downtime
// и те же параметры, что у JSON-отчёта этого вида.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GenerateReportExcel"

		req := genexcel.Request{Kind: genexcel.Kind(r.URL.Query().Get("kind"))}

		f, err := respond.Filter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Filter = f

		switch req.Kind {
		case genexcel.KindWeekly:
			weekOf, err := respond.DateOr(r, "week_start", storage.DateOf(time.Now()))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			req.Filter.From = weekOf
		case genexcel.KindMonthly:
			req.Year, req.Month, err = respond.YearMonth(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		// На Excel можно побольше времени
		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		excelBytes, fileName, err := gen.GenerateExcel(ctx, req)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Header().Set("Content-Length", strconv.Itoa(len(excelBytes)))
		if _, err := w.Write(excelBytes); err != nil {
			log.Error("ошибка отправки файла", slog.String("op", op), slog.String("error", err.Error()))
		}
	}
}
