package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	dailyconfig "line-tracker/http-server/daily-config/update"
	"line-tracker/http-server/respond"
	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

type SettingsUpdater interface {
	SaveDefaultShift(ctx context.Context, dayType storage.DayType, w storage.ShiftWindow) error
	ReplaceDefaultSlots(ctx context.Context, dayType storage.DayType, slots []storage.TimeSlot) error
}

type ShiftSettingsRequest struct {
	DayType storage.DayType `json:"day_type"`
	Start   clock.Clock     `json:"start"`
	End     clock.Clock     `json:"end"`
}

type DefaultSlotsRequest struct {
	DayType storage.DayType    `json:"day_type"`
	Slots   []storage.TimeSlot `json:"slots"`
}

// UpdateShiftSettings PUT /settings/shift. Настройки из базы важнее значений из конфига.
func UpdateShiftSettings(log *slog.Logger, settings SettingsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateShiftSettings"

		var req ShiftSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.DayType.Valid() {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		if err := clock.Validate(req.Start, req.End); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := settings.SaveDefaultShift(ctx, req.DayType, storage.ShiftWindow{Start: req.Start, End: req.End}); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("смена по умолчанию обновлена", slog.String("op", op), slog.String("day_type", string(req.DayType)))
		render.JSON(w, r, map[string]bool{"success": true})
	}
}

// UpdateDefaultSlots PUT /default-slots заменяет слоты типа дня целиком.
func UpdateDefaultSlots(log *slog.Logger, settings SettingsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateDefaultSlots"

		var req DefaultSlotsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.DayType.Valid() {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}
		if len(req.Slots) == 0 {
			http.Error(w, "slots required", http.StatusBadRequest)
			return
		}
		if err := dailyconfig.ValidateSlots(req.Slots); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := settings.ReplaceDefaultSlots(ctx, req.DayType, req.Slots); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]bool{"success": true})
	}
}
