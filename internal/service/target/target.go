package target

import (
	"fmt"

	"github.com/shopspring/decimal"

	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

// EffectiveMinutes длительность слота минус пересечения с перерывами.
// Перерывы, пересекающиеся между собой, вычитаются каждый отдельно.
func EffectiveMinutes(slotStart, slotEnd clock.Clock, breaks []storage.Break) (float64, error) {
	const op = "service.target.EffectiveMinutes"

	duration, err := clock.DurationMinutes(slotStart, slotEnd)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var breakOverlap float64
	for _, b := range breaks {
		breakOverlap += clock.OverlapMinutes(slotStart, slotEnd, b.Start, b.End)
	}

	return max(0, duration-breakOverlap), nil
}

// Target ожидаемый выпуск: ставка × эффективные часы × работающие ячейки. Без округления.
// Отрицательный аргумент даёт storage.ErrInvalidInput.
func Target(ratePerCellPerHour, effectiveMinutes float64, cellsOperative int) (float64, error) {
	const op = "service.target.Target"

	if ratePerCellPerHour < 0 || effectiveMinutes < 0 || cellsOperative < 0 {
		return 0, fmt.Errorf("%s: rate=%v minutes=%v cells=%d: %w",
			op, ratePerCellPerHour, effectiveMinutes, cellsOperative, storage.ErrInvalidInput)
	}

	return ratePerCellPerHour * (effectiveMinutes / 60.0) * float64(cellsOperative), nil
}

// Round2 округление до двух знаков как в DECIMAL(…,2).
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round1 для процентов в отчётах.
func Round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
