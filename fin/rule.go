package fin

import (
	"github.com/keep94/budget/pdate"
)

// Period represents the repeat period of a category rule. The zero
// value is OneTime.
type Period int

const (
	// OneTime rules fire once if the query window intersects their
	// date range.
	OneTime Period = iota
	Day
	Week
	Month
	Year
	// Placeholder for period count. Does not represent an actual
	// period. New periods must be inserted right before this one.
	PeriodCount
)

// ToPeriod takes an int that ToInt returned and converts it back to a
// Period. On success, returns the Period and true. If x is out of
// range, returns PeriodCount and false.
func ToPeriod(x int) (Period, bool) {
	if x < 0 || x >= int(PeriodCount) {
		return PeriodCount, false
	}
	return Period(x), true
}

func (p Period) String() string {
	switch p {
	case OneTime:
		return "once"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

// ToInt maps a Period to an int in a way that is suitable for
// persistent storage.
func (p Period) ToInt() int {
	return int(p)
}

// CategoryRule is a repeating spending rule on a category: amount fires
// every everyN periods between startDate and endDate inclusive. A rule
// with period OneTime fires exactly once. A rule with period Year fires
// once a year whatever its everyN. CategoryRule works like a value type.
type CategoryRule struct {
	amount int64
	start  *pdate.Date
	end    *pdate.Date
	everyN int
	period Period
}

// Amount returns the rule amount in minor units of the owning
// category's currency.
func (r CategoryRule) Amount() int64 {
	return r.amount
}

// StartDate returns the inclusive start of the rule. ok is false if the
// rule is unbounded at the low end.
func (r CategoryRule) StartDate() (date pdate.Date, ok bool) {
	if r.start == nil {
		return
	}
	return *r.start, true
}

// EndDate returns the inclusive end of the rule. ok is false if the
// rule is unbounded at the high end.
func (r CategoryRule) EndDate() (date pdate.Date, ok bool) {
	if r.end == nil {
		return
	}
	return *r.end, true
}

// EveryN returns the skip factor: the rule fires every EveryN periods.
// It is ignored for OneTime and Year rules.
func (r CategoryRule) EveryN() int {
	return r.everyN
}

// Period returns the repeat period.
func (r CategoryRule) Period() Period {
	return r.period
}

// Equal returns true if r and other are structurally equal.
func (r CategoryRule) Equal(other CategoryRule) bool {
	if r.amount != other.amount || r.everyN != other.everyN ||
		r.period != other.period {
		return false
	}
	if (r.start == nil) != (other.start == nil) ||
		(r.end == nil) != (other.end == nil) {
		return false
	}
	if r.start != nil && *r.start != *other.start {
		return false
	}
	if r.end != nil && *r.end != *other.end {
		return false
	}
	return true
}

func (r CategoryRule) checkInvariants() {
	if r.everyN < 1 {
		violation("rule must repeat every 1 or more periods")
	}
	if r.period < OneTime || r.period >= PeriodCount {
		violation("rule has no such period")
	}
}

// CountOccurrencesBetween returns how many times this rule fires within
// the inclusive window [begin, end]. Periodic occurrences anchor to the
// rule's own start date, not to the query window. CountOccurrencesBetween
// panics if end < begin.
func (r CategoryRule) CountOccurrencesBetween(begin, end pdate.Date) int {
	if end < begin {
		violation("occurrence window runs backwards")
	}
	if r.start != nil && end < *r.start {
		return 0
	}
	if r.end != nil && begin > *r.end {
		return 0
	}
	if r.period == OneTime {
		return 1
	}
	first := begin
	if r.start != nil {
		first = *r.start
	}
	last := end
	if r.end != nil && *r.end < last {
		last = *r.end
	}
	count := r.countFrom(first, last)
	if first < begin {
		// Occurrences anchor at first, so everything counted on
		// [first, begin-1] lands outside the query window.
		count -= r.CountOccurrencesBetween(first, begin.AddDays(-1))
	}
	return count
}

// countFrom counts occurrences on [first, last] where first is the
// anchor of the periodic sequence.
func (r CategoryRule) countFrom(first, last pdate.Date) int {
	daysDiff := last.Value() - first.Value()
	if daysDiff < 0 {
		daysDiff = 0
	}
	switch r.period {
	case Day:
		return daysDiff/r.everyN + 1
	case Week:
		return daysDiff/(r.everyN*7) + 1
	case Month:
		months := 12*(last.Year()-first.Year()) + last.Month() - first.Month()
		// The final month counts only once last reaches the anchor's day
		// of month, so a 31st anchor's occurrence in a 30 day month is not
		// counted by a window that ends on that month's 30th.
		if last.Day() >= first.Day() {
			months++
		}
		return (months-1)/r.everyN + 1
	case Year:
		count := last.Year() - first.Year()
		if last.Month() > first.Month() ||
			(last.Month() == first.Month() && last.Day() >= first.Day()) {
			count++
		}
		return count
	}
	panic("period has no count")
}

// CategoryRuleBuilder builds CategoryRule values. The zero value is
// ready to use and builds a one-shot rule of amount 0.
type CategoryRuleBuilder struct {
	rule CategoryRule
	init bool
}

// Set sets this builder to rule so that Build returns an equal value.
func (b *CategoryRuleBuilder) Set(rule CategoryRule) *CategoryRuleBuilder {
	b.init = true
	b.rule = rule
	return b
}

func (b *CategoryRuleBuilder) SetAmount(amount int64) *CategoryRuleBuilder {
	b.initialize()
	b.rule.amount = amount
	return b
}

func (b *CategoryRuleBuilder) SetStartDate(date pdate.Date) *CategoryRuleBuilder {
	b.initialize()
	b.rule.start = &date
	return b
}

// ClearStartDate makes the rule unbounded at the low end.
func (b *CategoryRuleBuilder) ClearStartDate() *CategoryRuleBuilder {
	b.initialize()
	b.rule.start = nil
	return b
}

func (b *CategoryRuleBuilder) SetEndDate(date pdate.Date) *CategoryRuleBuilder {
	b.initialize()
	b.rule.end = &date
	return b
}

// ClearEndDate makes the rule unbounded at the high end.
func (b *CategoryRuleBuilder) ClearEndDate() *CategoryRuleBuilder {
	b.initialize()
	b.rule.end = nil
	return b
}

func (b *CategoryRuleBuilder) SetEveryN(n int) *CategoryRuleBuilder {
	b.initialize()
	b.rule.everyN = n
	return b
}

func (b *CategoryRuleBuilder) SetPeriod(p Period) *CategoryRuleBuilder {
	b.initialize()
	b.rule.period = p
	return b
}

// Build returns the built rule and resets this builder. Build panics
// with InvariantViolation if the rule would be invalid.
func (b *CategoryRuleBuilder) Build() CategoryRule {
	b.initialize()
	result := b.rule
	*b = CategoryRuleBuilder{}
	result.checkInvariants()
	return result
}

func (b *CategoryRuleBuilder) initialize() {
	if !b.init {
		b.init = true
		b.rule.everyN = 1
	}
}
