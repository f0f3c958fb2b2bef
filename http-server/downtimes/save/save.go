package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/storage"
)

type DowntimeAdder interface {
	Add(ctx context.Context, in storage.DowntimeInput) (int64, error)
}

func SaveDowntime(log *slog.Logger, downtimes DowntimeAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.downtimes.SaveDowntime"

		var in storage.DowntimeInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			log.Warn("ошибка парсинга JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		id, err := downtimes.Add(ctx, in)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]int64{"id": id})
	}
}
