package fin

import (
	"testing"

	"github.com/keep94/budget/pdate"
)

func TestPeriodRoundTrip(t *testing.T) {
	for _, p := range []Period{OneTime, Day, Week, Month, Year} {
		if r, ok := ToPeriod(p.ToInt()); r != p || !ok {
			t.Errorf("Round trip failed for %s", p)
		}
	}
	if r, ok := ToPeriod(-1); r != PeriodCount || ok {
		t.Error("Failure with illegal period")
	}
	if r, ok := ToPeriod(PeriodCount.ToInt()); r != PeriodCount || ok {
		t.Error("Failure with illegal period")
	}
}

func TestCountDaily(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.SetAmount(-500).SetPeriod(Day).Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 12, 31), 366)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 1, 1), 1)
}

func TestCountWeeklyAnchored(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.
		SetAmount(-1000).
		SetPeriod(Week).
		SetEveryN(2).
		SetStartDate(pdate.YMD(2012, 4, 17)).
		Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 7, 18), 14)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 7, 19), 15)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 7, 20), 15)
}

func TestCountQuarterly(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.
		SetPeriod(Month).
		SetEveryN(3).
		SetStartDate(pdate.YMD(2016, 1, 15)).
		Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 12, 31), 4)

	rule = builder.
		Set(rule).
		SetEndDate(pdate.YMD(2016, 8, 1)).
		Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 12, 31), 3)

	rule = builder.
		Set(rule).
		SetEndDate(pdate.YMD(2016, 10, 15)).
		Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 12, 31), 4)
}

func TestCountMonthlyDay31(t *testing.T) {
	// a rule anchored on the 31st counts a 30 day month once the window
	// runs past that month; a window ending on the 30th leaves it out
	var builder CategoryRuleBuilder
	rule := builder.
		SetPeriod(Month).
		SetStartDate(pdate.YMD(2016, 1, 31)).
		Build()
	// all 12 months count even though most lack a day 31
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 12, 31), 12)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 6, 30), 5)
}

func TestCountYearly(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.
		SetPeriod(Year).
		SetStartDate(pdate.YMD(2012, 6, 15)).
		Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 6, 14), 0)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 6, 15), 1)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2017, 6, 15), 2)
}

func TestCountOneTime(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.
		SetStartDate(pdate.YMD(2016, 3, 1)).
		SetEndDate(pdate.YMD(2016, 3, 1)).
		Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 12, 31), 1)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 2, 29), 0)
	verifyCount(
		t, rule, pdate.YMD(2016, 3, 2), pdate.YMD(2016, 12, 31), 0)
}

func TestCountOutsideRuleRange(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.
		SetPeriod(Day).
		SetStartDate(pdate.YMD(2016, 6, 1)).
		SetEndDate(pdate.YMD(2016, 6, 30)).
		Build()
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 5, 31), 0)
	verifyCount(
		t, rule, pdate.YMD(2016, 7, 1), pdate.YMD(2016, 12, 31), 0)
	verifyCount(
		t, rule, pdate.YMD(2016, 1, 1), pdate.YMD(2016, 12, 31), 30)
}

func TestCountProperties(t *testing.T) {
	// a daily rule with no skip factor fires once per day
	begin := pdate.YMD(2016, 2, 10)
	for days := 0; days < 40; days++ {
		end := begin.AddDays(days)
		var builder CategoryRuleBuilder
		daily := builder.SetPeriod(Day).Build()
		verifyCount(t, daily, begin, end, days+1)
	}
	// a skip factor never increases the count
	for _, period := range []Period{Day, Week, Month, Year} {
		for n := 1; n <= 5; n++ {
			var builder CategoryRuleBuilder
			single := builder.
				SetPeriod(period).
				SetStartDate(pdate.YMD(2016, 1, 7)).
				Build()
			skipped := builder.
				SetPeriod(period).
				SetEveryN(n).
				SetStartDate(pdate.YMD(2016, 1, 7)).
				Build()
			end := pdate.YMD(2018, 7, 23)
			if skipped.CountOccurrencesBetween(begin, end) >
				single.CountOccurrencesBetween(begin, end) {
				t.Errorf(
					"Expected count(%s, %d) <= count(%s, 1)",
					period, n, period)
			}
		}
	}
}

func TestCountBackwardsWindow(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.SetPeriod(Day).Build()
	verifyPanics(t, func() {
		rule.CountOccurrencesBetween(
			pdate.YMD(2016, 1, 2), pdate.YMD(2016, 1, 1))
	})
}

func TestRuleInvariants(t *testing.T) {
	var builder CategoryRuleBuilder
	verifyPanics(t, func() {
		builder.SetPeriod(Month).SetEveryN(0).Build()
	})
	verifyPanics(t, func() {
		builder.SetPeriod(Month).SetEveryN(-3).Build()
	})
	verifyPanics(t, func() {
		builder.SetPeriod(PeriodCount).Build()
	})
}

func TestRuleEqual(t *testing.T) {
	var builder CategoryRuleBuilder
	rule := builder.
		SetAmount(-2500).
		SetPeriod(Week).
		SetStartDate(pdate.YMD(2016, 1, 4)).
		Build()
	same := builder.
		SetAmount(-2500).
		SetPeriod(Week).
		SetStartDate(pdate.YMD(2016, 1, 4)).
		Build()
	if !rule.Equal(same) {
		t.Error("Expected equal rules")
	}
	different := builder.Set(rule).SetAmount(-2600).Build()
	if rule.Equal(different) {
		t.Error("Expected different rules")
	}
	unbounded := builder.Set(rule).ClearStartDate().Build()
	if rule.Equal(unbounded) {
		t.Error("Expected different rules")
	}
}

func verifyCount(
	t *testing.T, rule CategoryRule, begin, end pdate.Date, expected int) {
	t.Helper()
	if output := rule.CountOccurrencesBetween(begin, end); output != expected {
		t.Errorf(
			"Expected %d occurrences on [%s, %s], got %d",
			expected, begin, end, output)
	}
}

func verifyPanics(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Error("Expected InvariantViolation")
			return
		}
		if _, ok := r.(InvariantViolation); !ok {
			panic(r)
		}
	}()
	f()
}
