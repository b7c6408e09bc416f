package entities

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in the user's local time zone.
// Two Days are equal when their calendar fields are equal, regardless of
// the instant that produced them.
type Day struct {
	Year  int
	Month time.Month
	Dom   int
}

// DayOf returns the local calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return Day{Year: lt.Year(), Month: lt.Month(), Dom: lt.Day()}
}

// ParseDay parses a "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Dom: t.Day()}, nil
}

// MustParseDay is ParseDay for literals known to be valid.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats the day as "YYYY-MM-DD".
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Dom)
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d == Day{}
}

// midnightUTC anchors the day on UTC midnight, so day arithmetic
// never crosses a DST transition.
func (d Day) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Dom, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	t := d.midnightUTC().AddDate(0, 0, n)
	return Day{Year: t.Year(), Month: t.Month(), Dom: t.Day()}
}

// Before reports whether d is strictly before other.
func (d Day) Before(other Day) bool {
	return d.midnightUTC().Before(other.midnightUTC())
}

// DaysBetween returns the whole number of days between a and b: the absolute
// difference divided by one day, rounded up.
func DaysBetween(a, b Day) int {
	diff := a.midnightUTC().Sub(b.midnightUTC())
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(24*time.Hour)))
}

// MarshalText implements encoding.TextMarshaler so Day can be used as a JSON map key.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseTimezoneLocation resolves the zone whose midnight starts a new Day.
// Besides IANA names it takes fixed offsets such as "UTC+3", "GMT-7",
// "UTC+5:30" or "-03:30". Fixed offsets have no DST.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	off, ok := fixedOffset(tz)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}
	return time.FixedZone(offsetName(off), off), nil
}

// fixedOffset returns the offset east of UTC in seconds.
func fixedOffset(tz string) (int, bool) {
	s := strings.ToUpper(tz)
	for _, prefix := range []string{"UTC", "GMT"} {
		s = strings.TrimPrefix(s, prefix)
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}

	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, hasMinutes := strings.Cut(s[1:], ":")
	if !hasMinutes {
		mm = "0"
	}
	h, errH := strconv.Atoi(hh)
	m, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || h < 0 || h > 14 || m < 0 || m > 59 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

// offsetName renders an offset as "UTC+05:30".
func offsetName(off int) string {
	return "UTC" + time.Unix(0, 0).In(time.FixedZone("", off)).Format("-07:00")
}
