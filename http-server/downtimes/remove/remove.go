package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
)

type DowntimeDeleter interface {
	Delete(ctx context.Context, id int64) error
}

func DeleteDowntime(log *slog.Logger, downtimes DowntimeDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.downtimes.DeleteDowntime"

		id, err := respond.PathID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := downtimes.Delete(ctx, id); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]bool{"success": true})
	}
}
