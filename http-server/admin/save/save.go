package save

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

type MasterDataSaver interface {
	SaveGroup(ctx context.Context, g storage.ProductionGroup) (int64, error)
	SaveReason(ctx context.Context, r storage.DeficitReason) (int64, error)
	InsertBreak(ctx context.Context, b storage.Break) (int64, error)
}

// pathID 0 для POST без {id}, иначе id из маршрута.
func pathID(r *http.Request) (int64, error) {
	if chi.URLParam(r, "id") == "" {
		return 0, nil
	}
	return respond.PathID(r, "id")
}

func validateGroup(g storage.ProductionGroup) error {
	if strings.TrimSpace(g.Name) == "" || g.DefaultCells < 0 || g.RatePerCellPerHour < 0 {
		return fmt.Errorf("группа %q: %w", g.Name, storage.ErrInvalidInput)
	}
	return nil
}

// SaveGroup POST /groups создаёт группу, PUT /groups/{id} обновляет.
func SaveGroup(log *slog.Logger, data MasterDataSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveGroup"

		id, err := pathID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var g storage.ProductionGroup
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		g.ID = id
		g.Name = strings.TrimSpace(g.Name)
		if err := validateGroup(g); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		saved, err := data.SaveGroup(ctx, g)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("группа сохранена", slog.String("op", op), slog.Int64("id", saved))
		if id == 0 {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, map[string]int64{"id": saved})
	}
}

func SaveReason(log *slog.Logger, data MasterDataSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveReason"

		id, err := pathID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var reason storage.DeficitReason
		if err := json.NewDecoder(r.Body).Decode(&reason); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		reason.ID = id
		reason.ReasonText = strings.TrimSpace(reason.ReasonText)
		if reason.ReasonText == "" {
			http.Error(w, "reason_text required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		saved, err := data.SaveReason(ctx, reason)
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		if id == 0 {
			render.Status(r, http.StatusCreated)
		}
		render.JSON(w, r, map[string]int64{"id": saved})
	}
}

type DefaultBreakRequest struct {
	BreakType storage.BreakType `json:"break_type"`
	Label     string            `json:"label"`
	DayType   storage.DayType   `json:"day_type"`
	StartTime clock.Clock       `json:"start_time"`
	EndTime   clock.Clock       `json:"end_time"`
	GroupID   *int64            `json:"group_id"`
}

// SaveDefaultBreak POST /default-breaks. day_type sun_fri, sat или all (по умолчанию).
func SaveDefaultBreak(log *slog.Logger, data MasterDataSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveDefaultBreak"

		var req DefaultBreakRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		if req.DayType == "" {
			req.DayType = storage.DayAll
		}
		if req.BreakType == "" {
			req.BreakType = storage.BreakLunch
		}
		if !req.BreakType.Valid() || (!req.DayType.Valid() && req.DayType != storage.DayAll) {
			respond.Error(w, log, op, fmt.Errorf("%s/%s: %w", req.BreakType, req.DayType, storage.ErrInvalidInput))
			return
		}
		if err := clock.Validate(req.StartTime, req.EndTime); err != nil {
			respond.Error(w, log, op, err)
			return
		}
		if req.GroupID != nil && *req.GroupID <= 0 {
			req.GroupID = nil
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		id, err := data.InsertBreak(ctx, storage.Break{
			BreakType: req.BreakType,
			Label:     strings.TrimSpace(req.Label),
			Start:     req.StartTime,
			End:       req.EndTime,
			IsDefault: true,
			DayType:   req.DayType,
			GroupID:   req.GroupID,
		})
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]int64{"id": id})
	}
}
