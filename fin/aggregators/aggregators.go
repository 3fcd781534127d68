// Package aggregators contains aggregators of fin.Transaction values.
// Each aggregator has an Include method and can be easily converted to
// a consumer via the appropriate method in the consumers package.
package aggregators

import (
	"github.com/keep94/appcommon/str_util"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/pdate"
)

// Totaler sums up the total of each fin.Transaction instance.
type Totaler struct {
	// Total is the total so far
	Total int64
}

func (t *Totaler) Include(txn *fin.Transaction) {
	t.Total += txn.Total()
}

// WhoAutoCompleteAggregator makes a list of auto complete candidates
// from the Who field of transactions.
type WhoAutoCompleteAggregator struct {
	str_util.AutoComplete
}

func (a *WhoAutoCompleteAggregator) Include(txn *fin.Transaction) {
	a.Add(txn.Who())
}

// Recurring is the interface for recurring time periods. e.g monthly,
// yearly.
type Recurring interface {
	// Normalize returns the beginning of a time period for a given date
	Normalize(d pdate.Date) pdate.Date
	// Add returns the result of adding numPeriods time periods to a
	// start date
	Add(d pdate.Date, numPeriods int) pdate.Date
}

func Monthly() Recurring {
	return monthly{}
}

func Yearly() Recurring {
	return yearly{}
}

// PeriodTotal contains the total of all transactions for a given
// period.
type PeriodTotal struct {
	// The start of the period
	PeriodStart pdate.Date
	// The actual start inclusive. May differ from PeriodStart if this
	// record covers a partial period
	Start pdate.Date
	// The end exclusive. May differ from start of next period if this
	// record covers a partial period.
	End pdate.Date
	// The total for the period.
	Total int64
}

// ByPeriodTotaler sums totals by period
type ByPeriodTotaler struct {
	start     pdate.Date
	end       pdate.Date
	recurring Recurring
	totals    map[pdate.Date]int64
}

// NewByPeriodTotaler creates a new ByPeriodTotaler that collects
// statistics for transactions happening between start inclusive and
// end exclusive. The recurring parameter indicates the recurring
// period such as monthly or yearly. Undated transactions are skipped.
func NewByPeriodTotaler(
	start, end pdate.Date, recurring Recurring) *ByPeriodTotaler {
	return &ByPeriodTotaler{
		start:     start,
		end:       end,
		recurring: recurring,
		totals:    make(map[pdate.Date]int64)}
}

func (b *ByPeriodTotaler) Include(txn *fin.Transaction) {
	date, ok := txn.Date()
	if !ok || date < b.start || date >= b.end {
		return
	}
	b.totals[b.recurring.Normalize(date)] += txn.Total()
}

// Iterator is used to get the totals by period.
func (b *ByPeriodTotaler) Iterator() *PeriodTotalIterator {
	return &PeriodTotalIterator{b, b.recurring.Normalize(b.start), 0}
}

// PeriodTotalIterator iterates over period totals.
type PeriodTotalIterator struct {
	totaler     *ByPeriodTotaler
	firstPeriod pdate.Date
	idx         int
}

// Next stores the next period total at p and returns true. If there
// is no next period total, Next returns false.
func (pti *PeriodTotalIterator) Next(p *PeriodTotal) bool {
	periodStart := pti.totaler.recurring.Add(pti.firstPeriod, pti.idx)
	total := pti.totaler.totals[periodStart]
	start := periodStart
	if start < pti.totaler.start {
		start = pti.totaler.start
	}
	end := pti.totaler.recurring.Add(pti.firstPeriod, pti.idx+1)
	if end > pti.totaler.end {
		end = pti.totaler.end
	}
	if end > start {
		pti.idx++
		*p = PeriodTotal{
			PeriodStart: periodStart,
			Start:       start,
			End:         end,
			Total:       total}
		return true
	}
	return false
}

type monthly struct{}

func (m monthly) Normalize(d pdate.Date) pdate.Date {
	return pdate.YMD(d.Year(), d.Month(), 1)
}

func (m monthly) Add(d pdate.Date, numPeriods int) pdate.Date {
	months := d.Year()*12 + d.Month() - 1 + numPeriods
	year := months / 12
	month := months%12 + 1
	day := d.Day()
	if dim := pdate.DaysInMonth(year, month); day > dim {
		day = dim
	}
	return pdate.YMD(year, month, day)
}

type yearly struct{}

func (y yearly) Normalize(d pdate.Date) pdate.Date {
	return pdate.YMD(d.Year(), 1, 1)
}

func (y yearly) Add(d pdate.Date, numPeriods int) pdate.Date {
	year := d.Year() + numPeriods
	day := d.Day()
	if dim := pdate.DaysInMonth(year, d.Month()); day > dim {
		day = dim
	}
	return pdate.YMD(year, d.Month(), day)
}
