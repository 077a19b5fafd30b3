package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for all calendar dates.
const DateLayout = "2006-01-02"

// Date is a civil calendar date with no time-of-day component. The engine
// works exclusively in whole days; all comparisons and arithmetic are
// day-granular.
type Date struct {
	t time.Time
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd", s)
	}
	return Date{t: t}, nil
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) String() string     { return d.t.Format(DateLayout) }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t).Hours() / 24)
}

// InclusiveDays returns the duration of [start, end] counting both
// endpoints, so a same-day rental is one day.
func InclusiveDays(start, end Date) int {
	return DaysBetween(start, end) + 1
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date literal %s", s)
	}
	s = s[1 : len(s)-1]
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
