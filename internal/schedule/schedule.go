// Package schedule resolves relative date words and validates appointment
// slots against the clinic's commercial hours. All dates are civil dates in
// the clinic's local time zone; no timezone conversion happens here.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

// BookingHorizonDays is how far ahead an appointment may be booked.
const BookingHorizonDays = 14

// weekdays maps Spanish and English weekday names to time.Weekday.
// Accented and unaccented Spanish spellings are both accepted.
var weekdays = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
	"domingo":   time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ISODate formats t as a fixed-width YYYY-MM-DD string.
func ISODate(t time.Time) string {
	return t.Format(isoLayout)
}

// ResolveDate maps a date token to an absolute ISO date. It recognizes
// literal ISO dates (returned as-is), "hoy"/"today", "mañana"/"tomorrow"
// and weekday names. A weekday name always resolves to the next future
// occurrence: when the named weekday is today, it means next week's, never
// today. Unknown tokens are returned unchanged for downstream literal-date
// handling.
func ResolveDate(token string, today time.Time) string {
	normalized := strings.ToLower(strings.TrimSpace(token))

	switch normalized {
	case "hoy", "today":
		return ISODate(today)
	case "mañana", "manana", "tomorrow":
		return ISODate(today.AddDate(0, 0, 1))
	}

	if target, ok := weekdays[normalized]; ok {
		diff := int(target) - int(today.Weekday())
		if diff <= 0 {
			diff += 7
		}
		return ISODate(today.AddDate(0, 0, diff))
	}

	return token
}

// IsPastDate reports whether iso falls before today. Lexicographic
// comparison is sufficient for fixed-width YYYY-MM-DD.
func IsPastDate(iso string, today time.Time) bool {
	return iso < ISODate(today)
}

// WithinBookingHorizon reports whether iso is no more than
// BookingHorizonDays after today.
func WithinBookingHorizon(iso string, today time.Time) bool {
	return iso <= ISODate(today.AddDate(0, 0, BookingHorizonDays))
}

// WithinBusinessHours reports whether the 12-hour clock time falls inside
// the clinic's commercial window for the date's weekday:
//
//	Monday–Friday  9:00 AM – 7:00 PM
//	Saturday      10:00 AM – 3:00 PM
//	Sunday        closed
//
// The closing time itself is allowed; one minute past it is not.
func WithinBusinessHours(isoDate, time12h string) (bool, error) {
	hour, minute, err := parseClock12(time12h)
	if err != nil {
		return false, err
	}

	day, err := time.Parse(isoLayout, isoDate)
	if err != nil {
		return false, fmt.Errorf("schedule: invalid date %q: %w", isoDate, err)
	}

	switch wd := day.Weekday(); {
	case wd >= time.Monday && wd <= time.Friday:
		return !(hour < 9 || hour > 19 || (hour == 19 && minute > 0)), nil
	case wd == time.Saturday:
		return !(hour < 10 || hour > 15 || (hour == 15 && minute > 0)), nil
	default:
		return false, nil
	}
}

// parseClock12 converts "HH:MM AM/PM" into 24-hour hour and minute.
func parseClock12(raw string) (hour, minute int, err error) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("schedule: invalid 12-hour time %q", raw)
	}

	period := strings.ToUpper(fields[1])
	if period != "AM" && period != "PM" {
		return 0, 0, fmt.Errorf("schedule: invalid AM/PM suffix in %q", raw)
	}

	hm := strings.Split(fields[0], ":")
	if len(hm) != 2 {
		return 0, 0, fmt.Errorf("schedule: invalid 12-hour time %q", raw)
	}
	hour, err = strconv.Atoi(hm[0])
	if err != nil {
		return 0, 0, fmt.Errorf("schedule: invalid hour in %q", raw)
	}
	minute, err = strconv.Atoi(hm[1])
	if err != nil {
		return 0, 0, fmt.Errorf("schedule: invalid minute in %q", raw)
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("schedule: out-of-range 12-hour time %q", raw)
	}

	if period == "PM" && hour != 12 {
		hour += 12
	}
	if period == "AM" && hour == 12 {
		hour = 0
	}
	return hour, minute, nil
}
