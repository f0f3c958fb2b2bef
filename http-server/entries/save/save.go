package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/service/entry"
	"line-tracker/internal/storage"
)

type EntriesSaver interface {
	SaveEntries(ctx context.Context, req storage.SaveEntries) (*entry.SaveResult, error)
}

// SaveEntries POST /entries: {date, group_id, entries: [...]}.
func SaveEntries(log *slog.Logger, entries EntriesSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.entries.SaveEntries"

		var req storage.SaveEntries
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("ошибка парсинга JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		res, err := entries.SaveEntries(ctx, req)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
