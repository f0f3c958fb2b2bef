package clock

// OverlapMinutes пересечение двух интервалов одного дня в минутах.
// Касание концами и непересекающиеся интервалы дают 0.
func OverlapMinutes(aStart, aEnd, bStart, bEnd Clock) float64 {
	start := max(aStart, bStart)
	end := min(aEnd, bEnd)

	if start >= end {
		return 0
	}

	return float64(end-start) / 60.0
}

// DurationMinutes длина интервала в минутах, без округления.
func DurationMinutes(start, end Clock) (float64, error) {
	if err := Validate(start, end); err != nil {
		return 0, err
	}
	return float64(end-start) / 60.0, nil
}
