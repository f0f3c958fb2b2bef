package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
)

type BreakDeleter interface {
	DeleteBreak(ctx context.Context, id int64, isDefault bool) error
}

// DeleteDefaultBreak DELETE /default-breaks/{id}.
func DeleteDefaultBreak(log *slog.Logger, breaks BreakDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.DeleteDefaultBreak"

		id, err := respond.PathID(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := breaks.DeleteBreak(ctx, id, true); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("дефолтный перерыв удалён", slog.String("op", op), slog.Int64("id", id))
		render.JSON(w, r, map[string]bool{"success": true})
	}
}
