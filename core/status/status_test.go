package status

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/carnet/core/calendar"
)

const minutesPerDay = 24 * 60

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "08:15", want: 8*60 + 15},
		{in: "8:15", want: 8*60 + 15},
		{in: "00:00", want: 0},
		{in: "23:59", want: 23*60 + 59},
		{in: " 09:00 ", want: 9 * 60},
		{in: "", wantErr: true},
		{in: "25:99", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12:5", wantErr: true},
		{in: "123:45", wantErr: true},
		{in: "-1:30", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "08h15", wantErr: true},
		{in: "08:15:00", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Equal(t, ErrInvalidTimeFormat, err)
				assert.Equal(t, ErrInvalidTimeFormat, errors.Cause(errors.Wrap(err, "saving attendance")))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClock_String(t *testing.T) {
	assert.Equal(t, "08:05", MustParseClock("8:05").String())
	assert.Equal(t, "00:00", Clock(0).String())
	assert.Equal(t, "23:59", Clock(minutesPerDay-1).String())
}

func TestDeriveAttendance(t *testing.T) {
	cutoff := DefaultCutoff

	t.Run("every time up to the cutoff is Present, every time after is Late", func(t *testing.T) {
		for m := 0; m < minutesPerDay; m++ {
			clock := Clock(m)
			got, parsed, err := DeriveAttendance(clock.String(), false, cutoff)
			assert.NoError(t, err)
			assert.Equal(t, clock, parsed)
			if clock <= cutoff {
				assert.Equal(t, Present, got, clock.String())
			} else {
				assert.Equal(t, Late, got, clock.String())
			}
		}
	})

	t.Run("boundaries", func(t *testing.T) {
		got, _, _ := DeriveAttendance("08:30", false, cutoff)
		assert.Equal(t, Present, got)
		got, _, _ = DeriveAttendance("08:31", false, cutoff)
		assert.Equal(t, Late, got)
	})

	t.Run("unsigned wins regardless of the time value", func(t *testing.T) {
		for _, in := range []string{"", "08:00", "09:45", "25:99", "garbage"} {
			got, clock, err := DeriveAttendance(in, true, cutoff)
			assert.NoError(t, err)
			assert.Equal(t, Unsigned, got)
			assert.Zero(t, clock)
		}
	})

	t.Run("malformed times fail", func(t *testing.T) {
		for _, in := range []string{"25:99", "", "noon", "8.15"} {
			_, _, err := DeriveAttendance(in, false, cutoff)
			assert.Equal(t, ErrInvalidTimeFormat, err, in)
		}
	})

	t.Run("custom cutoff", func(t *testing.T) {
		got, _, _ := DeriveAttendance("07:50", false, MustParseClock("07:45"))
		assert.Equal(t, Late, got)
	})
}

func TestDaysLate(t *testing.T) {
	due := calendar.New(2024, time.June, 1)
	tests := []struct {
		name      string
		delivered calendar.Date
		want      int
	}{
		{name: "well before", delivered: calendar.New(2024, time.May, 30), want: 0},
		{name: "on the day", delivered: due, want: 0},
		{name: "one day late", delivered: due.AddDays(1), want: 1},
		{name: "three days late", delivered: calendar.New(2024, time.June, 4), want: 3},
		{name: "across months", delivered: calendar.New(2024, time.July, 1), want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysLate(tt.delivered, due))
		})
	}
	for n := 1; n <= 40; n++ {
		assert.Equal(t, n, DaysLate(due.AddDays(n), due))
		assert.Equal(t, 0, DaysLate(due.AddDays(-n), due))
	}
}

func TestPunctuality(t *testing.T) {
	cutoff, grace := MustParseClock("08:30"), MustParseClock("08:45")
	assert.Equal(t, OnTime, Punctuality(MustParseClock("07:10"), cutoff, grace))
	assert.Equal(t, OnTime, Punctuality(MustParseClock("08:30"), cutoff, grace))
	assert.Equal(t, SlightlyLate, Punctuality(MustParseClock("08:31"), cutoff, grace))
	assert.Equal(t, SlightlyLate, Punctuality(MustParseClock("08:44"), cutoff, grace))
	assert.Equal(t, VeryLate, Punctuality(MustParseClock("08:45"), cutoff, grace))
	assert.Equal(t, VeryLate, Punctuality(MustParseClock("11:00"), cutoff, grace))
}

func TestStatuses_Valid(t *testing.T) {
	assert.True(t, Present.Valid())
	assert.True(t, Unsigned.Valid())
	assert.False(t, Attendance("present").Valid())
	assert.True(t, Outdated.Valid())
	assert.False(t, Journal("Late").Valid())
	assert.True(t, SentLate.Valid())
	assert.False(t, Devoir("Sent late").Valid())
	assert.True(t, Late.SignedIn())
	assert.False(t, Unsigned.SignedIn())
	assert.False(t, Absent.SignedIn())
}
