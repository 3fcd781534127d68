package pdate

import (
	"testing"
)

func TestEpoch(t *testing.T) {
	d := YMD(2000, 1, 1)
	if d != 0 {
		t.Errorf("Expected 2000-01-01 to be day 0, got %d", d)
	}
	verifyYMD(t, d, 2000, 1, 1)
}

func TestRoundTrip(t *testing.T) {
	dates := [][3]int{
		{2000, 2, 29},
		{2000, 12, 31},
		{2012, 4, 17},
		{2016, 1, 1},
		{2016, 7, 19},
		{2016, 12, 31},
		{2100, 2, 28},
		{2400, 2, 29},
		{3000, 12, 31},
	}
	for _, ymd := range dates {
		verifyYMD(t, YMD(ymd[0], ymd[1], ymd[2]), ymd[0], ymd[1], ymd[2])
	}
}

func TestOrdering(t *testing.T) {
	if YMD(2016, 1, 1) >= YMD(2016, 1, 2) {
		t.Error("Expected 2016-01-01 < 2016-01-02")
	}
	if YMD(2016, 12, 31)-YMD(2016, 1, 1) != 365 {
		t.Error("Expected 2016 to span 366 days")
	}
	if YMD(2015, 12, 31)-YMD(2015, 1, 1) != 364 {
		t.Error("Expected 2015 to span 365 days")
	}
}

func TestAddDays(t *testing.T) {
	verifyYMD(t, YMD(2016, 2, 28).AddDays(1), 2016, 2, 29)
	verifyYMD(t, YMD(2016, 2, 29).AddDays(1), 2016, 3, 1)
	verifyYMD(t, YMD(2016, 1, 1).AddDays(-1), 2015, 12, 31)
}

func TestLeapYear(t *testing.T) {
	leaps := map[int]bool{
		2000: true, 2015: false, 2016: true, 2100: false, 2400: true,
	}
	for year, expected := range leaps {
		if IsLeapYear(year) != expected {
			t.Errorf("IsLeapYear(%d): expected %v", year, expected)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	if DaysInMonth(2016, 2) != 29 {
		t.Error("Expected 29 days in 2016-02")
	}
	if DaysInMonth(2015, 2) != 28 {
		t.Error("Expected 28 days in 2015-02")
	}
	if DaysInMonth(2016, 4) != 30 {
		t.Error("Expected 30 days in 2016-04")
	}
	if DaysInMonth(2016, 12) != 31 {
		t.Error("Expected 31 days in 2016-12")
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2016-07-19")
	if err != nil {
		t.Fatalf("Got error %v", err)
	}
	verifyYMD(t, d, 2016, 7, 19)
	if d.String() != "2016-07-19" {
		t.Errorf("Expected 2016-07-19, got %s", d.String())
	}
	if _, err := Parse("2016-02-30"); err == nil {
		t.Error("Expected error for 2016-02-30")
	}
	if _, err := Parse("garbage"); err == nil {
		t.Error("Expected error for garbage")
	}
	if _, err := Parse("1999-12-31"); err == nil {
		t.Error("Expected error for year before range")
	}
}

func TestFromValue(t *testing.T) {
	d := YMD(2016, 7, 19)
	if FromValue(d.Value()) != d {
		t.Error("Value round trip failed")
	}
}

func verifyYMD(t *testing.T, d Date, year, month, day int) {
	t.Helper()
	if d.Year() != year || d.Month() != month || d.Day() != day {
		t.Errorf(
			"Expected %04d-%02d-%02d, got %s", year, month, day, d)
	}
}
