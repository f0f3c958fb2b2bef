package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/storage"
)

type DowntimeUpdater interface {
	Update(ctx context.Context, upd storage.DowntimeUpdate) error
}

// UpdateDowntime PUT /downtimes/{id}: закрытие события или правка причины и категории.
func UpdateDowntime(log *slog.Logger, downtimes DowntimeUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.downtimes.UpdateDowntime"

		id, err := respond.PathID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var upd storage.DowntimeUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			http.Error(w, "ошибка парсинга JSON", http.StatusBadRequest)
			return
		}
		upd.ID = id

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := downtimes.Update(ctx, upd); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]bool{"success": true})
	}
}
