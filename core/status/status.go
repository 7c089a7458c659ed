// Package status derives the categorical statuses and lateness counts stored with each record.
// Everything here is pure: no I/O and no package state.
package status

import "github.com/trezcool/carnet/core/calendar"

type Attendance string

const (
	Present  Attendance = "Present"
	Late     Attendance = "Late"
	Absent   Attendance = "Absent"
	Unsigned Attendance = "Unsigned"
)

// DefaultCutoff is the latest sign-in time still counted as Present.
var DefaultCutoff = Clock(8*60 + 30)

func (a Attendance) Valid() bool {
	switch a {
	case Present, Late, Absent, Unsigned:
		return true
	default:
		return false
	}
}

// SignedIn reports whether the teacher actually signed in that day.
func (a Attendance) SignedIn() bool {
	return a == Present || a == Late
}

// DeriveAttendance classifies a sign-in.
// unsigned wins over any entered time. Otherwise entered must parse as HH:MM and is compared to cutoff (inclusive).
// The returned Clock is the parsed sign-in time (zero for Unsigned).
// Absent is never derived: a caller with no time to record chooses it explicitly.
func DeriveAttendance(entered string, unsigned bool, cutoff Clock) (Attendance, Clock, error) {
	if unsigned {
		return Unsigned, 0, nil
	}
	clock, err := ParseClock(entered)
	if err != nil {
		return "", 0, err
	}
	if clock <= cutoff {
		return Present, clock, nil
	}
	return Late, clock, nil
}

// DaysLate is the number of days delivered falls after due; 0 when on or before due.
func DaysLate(delivered, due calendar.Date) int {
	if n := calendar.DaysBetween(delivered, due); n > 0 {
		return n
	}
	return 0
}

type Journal string

const (
	Checked   Journal = "Checked"
	Outdated  Journal = "Outdated"
	Forgotten Journal = "Forgotten"
)

func (j Journal) Valid() bool {
	switch j {
	case Checked, Outdated, Forgotten:
		return true
	default:
		return false
	}
}

type Devoir string

const (
	Sent     Devoir = "Sent"
	NotSent  Devoir = "Not Sent"
	SentLate Devoir = "Sent Late"
)

var DevoirStatuses = []Devoir{Sent, NotSent, SentLate}

func (d Devoir) Valid() bool {
	switch d {
	case Sent, NotSent, SentLate:
		return true
	default:
		return false
	}
}

type Band string

const (
	OnTime       Band = "on_time"
	SlightlyLate Band = "slightly_late"
	VeryLate     Band = "late"
)

// Punctuality bands a sign-in time for timelines: on time up to cutoff, slightly late before grace, late from grace on.
func Punctuality(clock, cutoff, grace Clock) Band {
	switch {
	case clock <= cutoff:
		return OnTime
	case clock < grace:
		return SlightlyLate
	default:
		return VeryLate
	}
}
