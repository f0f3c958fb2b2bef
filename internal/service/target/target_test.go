package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"line-tracker/internal/clock"
	"line-tracker/internal/storage"
)

func brk(t storage.BreakType, start, end string) storage.Break {
	return storage.Break{BreakType: t, Start: clock.MustParse(start), End: clock.MustParse(end)}
}

func TestEffectiveMinutes_TeaBreak(t *testing.T) {
	got, err := EffectiveMinutes(clock.MustParse("08:00"), clock.MustParse("10:00"),
		[]storage.Break{brk(storage.BreakTea, "09:00", "09:15")})

	require.NoError(t, err)
	assert.Equal(t, 105.0, got)
}

func TestEffectiveMinutes_NoBreaksIsRawDuration(t *testing.T) {
	got, err := EffectiveMinutes(clock.MustParse("13:00"), clock.MustParse("15:30"), nil)

	require.NoError(t, err)
	assert.Equal(t, 150.0, got)
}

func TestEffectiveMinutes_OverlappingBreaksDoubleCounted(t *testing.T) {
	breaks := []storage.Break{
		brk(storage.BreakLunch, "12:00", "12:30"),
		brk(storage.BreakOther, "12:15", "12:45"),
	}

	got, err := EffectiveMinutes(clock.MustParse("12:00"), clock.MustParse("13:00"), breaks)

	require.NoError(t, err)
	// 60 - 30 - 30
	assert.Equal(t, 0.0, got)
}

func TestEffectiveMinutes_NeverNegative(t *testing.T) {
	breaks := []storage.Break{
		brk(storage.BreakLunch, "08:00", "09:00"),
		brk(storage.BreakOther, "08:00", "09:00"),
		brk(storage.BreakTea, "08:30", "09:00"),
	}

	got, err := EffectiveMinutes(clock.MustParse("08:00"), clock.MustParse("09:00"), breaks)

	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestEffectiveMinutes_Monotonic(t *testing.T) {
	start, end := clock.MustParse("08:30"), clock.MustParse("10:30")
	candidates := []storage.Break{
		brk(storage.BreakTea, "09:00", "09:10"),
		brk(storage.BreakOther, "10:00", "11:00"),
		brk(storage.BreakLunch, "07:00", "08:45"),
		brk(storage.BreakTea, "12:00", "12:10"),
	}

	var breaks []storage.Break
	prev, err := EffectiveMinutes(start, end, breaks)
	require.NoError(t, err)

	for _, b := range candidates {
		breaks = append(breaks, b)
		got, err := EffectiveMinutes(start, end, breaks)
		require.NoError(t, err)
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestEffectiveMinutes_InvalidSlot(t *testing.T) {
	_, err := EffectiveMinutes(clock.MustParse("10:00"), clock.MustParse("08:00"), nil)
	assert.True(t, errors.Is(err, storage.ErrInvalidInterval))
}

func mustTarget(t *testing.T, rate, effMin float64, cells int) float64 {
	t.Helper()

	v, err := Target(rate, effMin, cells)
	require.NoError(t, err)
	return v
}

func TestTarget(t *testing.T) {
	assert.InDelta(t, 42.0, mustTarget(t, 6.00, 105, 4), 1e-9)
	assert.Equal(t, 0.0, mustTarget(t, 6.00, 0, 4))
	assert.Equal(t, 0.0, mustTarget(t, 0, 120, 4))
}

func TestTarget_Linear(t *testing.T) {
	base := mustTarget(t, 6.5, 110, 3)

	assert.InDelta(t, 2*base, mustTarget(t, 13, 110, 3), 1e-9)
	assert.InDelta(t, 2*base, mustTarget(t, 6.5, 220, 3), 1e-9)
	assert.InDelta(t, 2*base, mustTarget(t, 6.5, 110, 6), 1e-9)
}

func TestTarget_NegativeInput(t *testing.T) {
	tests := []struct {
		name  string
		rate  float64
		min   float64
		cells int
	}{
		{"rate", -1, 60, 2},
		{"minutes", 6, -30, 2},
		{"cells", 6, 60, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Target(tt.rate, tt.min, tt.cells)
			assert.ErrorIs(t, err, storage.ErrInvalidInput)
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 42.67, Round2(42.666666))
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 12.3, Round1(12.345))
}
