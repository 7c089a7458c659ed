package status

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidTimeFormat = errors.New("time must be in HH:MM format (e.g. 08:15)")

// Clock is a time of day with minute precision, counted in minutes since midnight.
type Clock int

// ParseClock parses "H:MM" or "HH:MM" (hour 0-23, minute 00-59).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, ErrInvalidTimeFormat
	}
	h, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil || h > 23 {
		return 0, ErrInvalidTimeFormat
	}
	m, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || m > 59 {
		return 0, ErrInvalidTimeFormat
	}
	return Clock(int(h)*60 + int(m)), nil
}

// MustParseClock is ParseClock for literals known to be valid.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(fmt.Sprintf("status.MustParseClock(%q): %v", s, err))
	}
	return c
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}
