package clock

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidInterval = errors.New("invalid interval: end must be after start")

// Clock время суток в секундах от полуночи. Без даты и без перехода через полночь.
type Clock int

const day = 24 * 60 * 60

// Parse разбирает "HH:MM" или "HH:MM:SS".
func Parse(s string) (Clock, error) {
	const op = "service.clock.Parse"

	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%s: неверный формат времени %q", op, s)
	}

	limits := []int{23, 59, 59}
	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%s: неверный формат времени %q", op, s)
		}
		vals[i] = n
	}

	return Clock(vals[0]*3600 + vals[1]*60 + vals[2]), nil
}

func MustParse(s string) Clock {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) Hour() int   { return int(c) / 3600 }
func (c Clock) Minute() int { return int(c) % 3600 / 60 }
func (c Clock) Second() int { return int(c) % 60 }

// String формат хранения в MySQL TIME.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// HHMM формат для отображения.
func (c Clock) HHMM() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Minutes с начала суток.
func (c Clock) Minutes() float64 {
	return float64(c) / 60.0
}

// Validate проверяет, что интервал не пустой и не перевёрнутый.
func Validate(start, end Clock) error {
	if end <= start {
		return fmt.Errorf("%s-%s: %w", start.HHMM(), end.HHMM(), ErrInvalidInterval)
	}
	return nil
}

func (c *Clock) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	case nil:
		*c = 0
		return nil
	default:
		return fmt.Errorf("service.clock.Scan: unsupported type %T", src)
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) Value() (driver.Value, error) {
	if c < 0 || c >= day {
		return nil, fmt.Errorf("service.clock.Value: out of range %d", int(c))
	}
	return c.String(), nil
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.HHMM())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
