package calendar

import "time"

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns later - earlier in whole days. The result is negative when later is before earlier.
// Both dates are UTC midnights, so Unix seconds divide exactly; time.Duration saturates at ~292 years.
func DaysBetween(later, earlier Date) int {
	return int((later.t.Unix() - earlier.t.Unix()) / secondsPerDay)
}

// NextWeekday returns the earliest date on or after from that falls on wd.
// When from already falls on wd, from itself is returned.
func NextWeekday(from Date, wd time.Weekday) Date {
	ahead := int(wd) - int(from.Weekday())
	if ahead < 0 {
		ahead += 7
	}
	return from.AddDays(ahead)
}
