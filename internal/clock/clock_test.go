package clock

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Clock
		ok   bool
	}{
		{"08:30", 8*3600 + 30*60, true},
		{"08:30:15", 8*3600 + 30*60 + 15, true},
		{" 21:00 ", 21 * 3600, true},
		{"00:00", 0, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if !c.ok {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestClock_Format(t *testing.T) {
	c := MustParse("07:05:09")
	assert.Equal(t, "07:05:09", c.String())
	assert.Equal(t, "07:05", c.HHMM())
	assert.Equal(t, 425.15, c.Minutes())
}

func TestClock_ScanAndValue(t *testing.T) {
	var c Clock
	require.NoError(t, c.Scan([]byte("13:45:00")))
	assert.Equal(t, MustParse("13:45"), c)

	require.NoError(t, c.Scan("09:00"))
	assert.Equal(t, MustParse("09:00"), c)

	assert.Error(t, c.Scan(42))

	v, err := MustParse("16:10").Value()
	require.NoError(t, err)
	assert.Equal(t, "16:10:00", v)
}

func TestClock_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Start Clock `json:"start"`
	}{MustParse("12:30")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"12:30"}`, string(b))

	var got struct {
		Start Clock `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"12:30:00"}`), &got))
	assert.Equal(t, MustParse("12:30"), got.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &got))
}

func TestOverlapMinutes(t *testing.T) {
	m := MustParse

	assert.Equal(t, 15.0, OverlapMinutes(m("08:00"), m("10:00"), m("09:00"), m("09:15")))
	assert.Equal(t, 30.0, OverlapMinutes(m("08:00"), m("10:00"), m("09:30"), m("11:00")))
	// касание концами
	assert.Equal(t, 0.0, OverlapMinutes(m("08:00"), m("10:00"), m("10:00"), m("10:30")))
	// не пересекаются
	assert.Equal(t, 0.0, OverlapMinutes(m("08:00"), m("10:00"), m("12:30"), m("13:00")))
	// перевёрнутый интервал не даёт отрицательного значения
	assert.Equal(t, 0.0, OverlapMinutes(m("10:00"), m("08:00"), m("08:00"), m("10:00")))
}

func TestOverlapMinutes_Symmetric(t *testing.T) {
	points := []Clock{MustParse("07:00"), MustParse("08:30"), MustParse("09:15"), MustParse("12:30"), MustParse("13:00"), MustParse("21:00")}

	for _, a := range points {
		for _, b := range points {
			for _, c := range points {
				for _, d := range points {
					x := OverlapMinutes(a, b, c, d)
					y := OverlapMinutes(c, d, a, b)
					assert.Equal(t, x, y)
					assert.GreaterOrEqual(t, x, 0.0)
				}
			}
		}
	}
}

func TestDurationMinutes(t *testing.T) {
	d, err := DurationMinutes(MustParse("08:00"), MustParse("10:00"))
	require.NoError(t, err)
	assert.Equal(t, 120.0, d)

	_, err = DurationMinutes(MustParse("10:00"), MustParse("10:00"))
	assert.True(t, errors.Is(err, ErrInvalidInterval))

	_, err = DurationMinutes(MustParse("10:00"), MustParse("09:00"))
	assert.True(t, errors.Is(err, ErrInvalidInterval))
}
