package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/service/downtime"
	"line-tracker/internal/storage"
)

type DowntimeLister interface {
	List(ctx context.Context, date storage.Date, groupID int64) (*downtime.List, error)
}

func GetDowntimes(log *slog.Logger, downtimes DowntimeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.downtimes.GetDowntimes"

		date, err := respond.Date(r, "date")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		groupID, err := respond.GroupID(r)
		if err != nil || groupID == 0 {
			http.Error(w, "Missing required query parameter 'group_id'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		list, err := downtimes.List(ctx, date, groupID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}
