package domain

import (
	"fmt"
	"time"
)

// DateLayout is the accepted format for target dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return DateOf(d.midnight().AddDate(0, 0, 1))
}

// YearDay returns the day of the year, in the range [1,365] or [1,366] in leap years.
func (d Date) YearDay() int {
	return d.midnight().YearDay()
}

// Contains reports whether t falls on d, using t's own UTC offset.
func (d Date) Contains(t time.Time) bool {
	return t.Year() == d.Year && t.YearDay() == d.YearDay()
}

// EndsBefore reports whether t's calendar day, in t's own UTC offset, is strictly after d.
func (d Date) EndsBefore(t time.Time) bool {
	if t.Year() != d.Year {
		return t.Year() > d.Year
	}
	return t.YearDay() > d.YearDay()
}

func (d Date) String() string {
	return d.midnight().Format(DateLayout)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a YYYY-MM-DD date.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
