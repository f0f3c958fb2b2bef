package save

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

type BreakInserter interface {
	InsertBreak(ctx context.Context, b storage.Break) (int64, error)
}

type BreakRequest struct {
	Date      storage.Date      `json:"date"`
	BreakType storage.BreakType `json:"break_type"`
	Label     string            `json:"label"`
	StartTime clock.Clock       `json:"start_time"`
	EndTime   clock.Clock       `json:"end_time"`
	GroupID   *int64            `json:"group_id"`
}

// ToBreak тип по умолчанию lunch.
func (req BreakRequest) ToBreak() (storage.Break, error) {
	bt := req.BreakType
	if bt == "" {
		bt = storage.BreakLunch
	}
	if !bt.Valid() {
		return storage.Break{}, fmt.Errorf("тип перерыва %q: %w", bt, storage.ErrInvalidInput)
	}
	if err := clock.Validate(req.StartTime, req.EndTime); err != nil {
		return storage.Break{}, err
	}
	if req.GroupID != nil && *req.GroupID <= 0 {
		req.GroupID = nil
	}

	return storage.Break{
		BreakType: bt,
		Label:     strings.TrimSpace(req.Label),
		Start:     req.StartTime,
		End:       req.EndTime,
		GroupID:   req.GroupID,
	}, nil
}

// SaveBreak POST /daily-config/breaks: перерыв только на одну дату.
func SaveBreak(log *slog.Logger, breaks BreakInserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dailyconfig.SaveBreak"

		var req BreakRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Date.IsZero() {
			http.Error(w, "Date and times required", http.StatusBadRequest)
			return
		}

		b, err := req.ToBreak()
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}
		date := req.Date
		b.ProductionDate = &date

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		id, err := breaks.InsertBreak(ctx, b)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{"success": true, "id": id})
	}
}
