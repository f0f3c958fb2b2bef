package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/storage"
)

type EntryDeleter interface {
	DeleteEntry(ctx context.Context, id int64) (storage.DailySummary, error)
}

// DeleteEntry DELETE /entries/{id}, в ответе пересчитанная сводка дня.
func DeleteEntry(log *slog.Logger, entries EntryDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.entries.DeleteEntry"

		id, err := respond.PathID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		sum, err := entries.DeleteEntry(ctx, id)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]any{"deleted": id, "summary": sum})
	}
}
