package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/storage"
)

type EntriesProvider interface {
	GetEntries(ctx context.Context, date storage.Date, groupID int64) ([]storage.ProductionEntry, error)
}

type Response struct {
	Date    storage.Date              `json:"date"`
	GroupID int64                     `json:"group_id"`
	Entries []storage.ProductionEntry `json:"entries"`
}

func GetEntries(log *slog.Logger, entries EntriesProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.entries.GetEntries"

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

		list, err := entries.GetEntries(ctx, date, groupID)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, Response{Date: date, GroupID: groupID, Entries: list})
	}
}
