package respond

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"line-tracker/internal/storage"
)

// Timeout на каждый вызов сервиса из хендлера.
const Timeout = 5 * time.Second

// Error ErrNotFound -> 404, ошибки валидации -> 400, остальное 500 с записью в лог.
func Error(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Warn("не найдено", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidInterval), errors.Is(err, storage.ErrInvalidInput):
		log.Warn("некорректный запрос", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		log.Error("таймаут", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Request timeout", http.StatusGatewayTimeout)
	default:
		log.Error("внутренняя ошибка", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Date обязательный параметр запроса в формате YYYY-MM-DD.
func Date(r *http.Request, name string) (storage.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return storage.Date{}, fmt.Errorf("missing required query parameter '%s'", name)
	}
	return storage.ParseDate(raw)
}

// DateOr как Date, но при отсутствии параметра возвращает def.
func DateOr(r *http.Request, name string, def storage.Date) (storage.Date, error) {
	if r.URL.Query().Get(name) == "" {
		return def, nil
	}
	return Date(r, name)
}

// GroupID необязательный group_id, 0 означает все группы.
func GroupID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("group_id")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid group_id %q", raw)
	}
	return id, nil
}

// PathID положительный числовой параметр маршрута chi.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// Filter start_date/end_date/group_id отчётов. По умолчанию с начала текущего месяца по сегодня.
func Filter(r *http.Request) (storage.ReportFilter, error) {
	today := storage.DateOf(time.Now())
	monthStart := storage.NewDate(today.Year(), today.Month(), 1)

	from, err := DateOr(r, "start_date", monthStart)
	if err != nil {
		return storage.ReportFilter{}, err
	}
	to, err := DateOr(r, "end_date", today)
	if err != nil {
		return storage.ReportFilter{}, err
	}
	groupID, err := GroupID(r)
	if err != nil {
		return storage.ReportFilter{}, err
	}

	return storage.ReportFilter{From: from, To: to, GroupID: groupID}, nil
}

// YearMonth year/month запроса, по умолчанию текущий месяц.
func YearMonth(r *http.Request) (int, int, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", raw)
		}
		year = v
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month %q", raw)
		}
		month = v
	}
	return year, month, nil
}
