package update

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"line-tracker/http-server/respond"
	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

type DailyConfigUpdater interface {
	UpsertShiftOverride(ctx context.Context, date storage.Date, w storage.ShiftWindow) error
	ReplaceSlotOverrides(ctx context.Context, date storage.Date, slots []storage.TimeSlot) error
}

type ShiftRequest struct {
	Date       storage.Date `json:"date"`
	ShiftStart clock.Clock  `json:"shift_start"`
	ShiftEnd   clock.Clock  `json:"shift_end"`
	Notes      string       `json:"notes"`
}

type SlotsRequest struct {
	Date  storage.Date       `json:"date"`
	Slots []storage.TimeSlot `json:"slots"`
}

// SaveShift PUT /daily-config/shift.
func SaveShift(log *slog.Logger, cfg DailyConfigUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dailyconfig.SaveShift"

		var req ShiftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Date.IsZero() {
			http.Error(w, "Date, start and end times required", http.StatusBadRequest)
			return
		}
		if err := clock.Validate(req.ShiftStart, req.ShiftEnd); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		err := cfg.UpsertShiftOverride(ctx, req.Date, storage.ShiftWindow{
			Start: req.ShiftStart,
			End:   req.ShiftEnd,
			Notes: req.Notes,
		})
		if err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("смена на дату сохранена", slog.String("op", op), slog.String("date", req.Date.String()))
		render.JSON(w, r, map[string]bool{"success": true})
	}
}

// SaveSlots PUT /daily-config/slots заменяет все слоты даты. Пустой список снимает переопределение.
func SaveSlots(log *slog.Logger, cfg DailyConfigUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dailyconfig.SaveSlots"

		var req SlotsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Date.IsZero() {
			http.Error(w, "Date required", http.StatusBadRequest)
			return
		}
		if err := ValidateSlots(req.Slots); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), respond.Timeout)
		defer cancel()

		if err := cfg.ReplaceSlotOverrides(ctx, req.Date, req.Slots); err != nil {
			respond.Error(w, log, op, err)
			return
		}

		log.Info("слоты на дату сохранены", slog.String("op", op),
			slog.String("date", req.Date.String()), slog.Int("count", len(req.Slots)))
		render.JSON(w, r, map[string]bool{"success": true})
	}
}

// ValidateSlots номера слотов положительные и уникальные, конец позже начала.
func ValidateSlots(slots []storage.TimeSlot) error {
	seen := make(map[int]bool, len(slots))
	for _, sl := range slots {
		if sl.SlotNumber <= 0 || seen[sl.SlotNumber] {
			return fmt.Errorf("слот %d: %w", sl.SlotNumber, storage.ErrInvalidInput)
		}
		seen[sl.SlotNumber] = true
		if err := clock.Validate(sl.Start, sl.End); err != nil {
			return fmt.Errorf("слот %d: %w", sl.SlotNumber, err)
		}
	}
	return nil
}
