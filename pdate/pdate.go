// Package pdate provides a compact calendar date. A Date is a count of
// days since 2000-01-01 in the proleptic Gregorian calendar, so dates
// compare and subtract as plain integers.
package pdate

import (
	"errors"
	"fmt"
)

const (
	// MinYear is the smallest year a Date can represent.
	MinYear = 2000
	// MaxYear is the largest year a Date can represent.
	MaxYear = 3000
)

var (
	MalformedDate = errors.New("pdate: Malformed date string.")
)

// days between 1970-01-01 and 2000-01-01
const kEpochOffset = 10957

// Date represents a calendar day as days since 2000-01-01. The zero
// value is 2000-01-01. Dates order by integer value.
type Date int32

// YMD returns the Date for the given year, month (1-12), and day.
// YMD panics if the date is invalid or the year falls outside
// [MinYear, MaxYear].
func YMD(year, month, day int) Date {
	if year < MinYear || year > MaxYear {
		panic(fmt.Sprintf("pdate: year %d out of range", year))
	}
	if month < 1 || month > 12 || day < 1 || day > DaysInMonth(year, month) {
		panic(fmt.Sprintf("pdate: no such date %d-%02d-%02d", year, month, day))
	}
	return Date(daysFromCivil(year, month, day) - kEpochOffset)
}

// Parse converts an ISO-8601 date string such as "2016-07-19" to a Date.
func Parse(s string) (d Date, err error) {
	var year, month, day int
	if _, err = fmt.Sscanf(s, "%4d-%2d-%2d", &year, &month, &day); err != nil {
		err = MalformedDate
		return
	}
	if year < MinYear || year > MaxYear || month < 1 || month > 12 ||
		day < 1 || day > DaysInMonth(year, month) {
		err = MalformedDate
		return
	}
	d = Date(daysFromCivil(year, month, day) - kEpochOffset)
	return
}

// FromValue converts an integer day value back to a Date.
func FromValue(v int) Date {
	return Date(v)
}

// Value returns the integer day value of d.
func (d Date) Value() int {
	return int(d)
}

// Year returns the year of d.
func (d Date) Year() int {
	y, _, _ := civilFromDays(int(d) + kEpochOffset)
	return y
}

// Month returns the month of d, 1 through 12.
func (d Date) Month() int {
	_, m, _ := civilFromDays(int(d) + kEpochOffset)
	return m
}

// Day returns the day of the month of d, 1 through 31.
func (d Date) Day() int {
	_, _, day := civilFromDays(int(d) + kEpochOffset)
	return day
}

// AddDays returns d moved forward by n days. n may be negative.
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

func (d Date) String() string {
	y, m, day := civilFromDays(int(d) + kEpochOffset)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
}

// IsLeapYear returns true if year is a leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month (1-12) of
// the given year.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	panic(fmt.Sprintf("pdate: no such month %d", month))
}

// daysFromCivil converts y-m-d to days since 1970-01-01.
func daysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 && y%400 != 0 {
		era--
	}
	yoe := y - era*400
	var mp int
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays converts days since 1970-01-01 to y, m, d.
func civilFromDays(z int) (y, m, d int) {
	z += 719468
	era := z / 146097
	if z < 0 && z%146097 != 0 {
		era--
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = doy - (153*mp+2)/5 + 1
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return
}
