package fin

import (
	"github.com/keep94/budget/pdate"
)

// ensureBalances builds the per-account running balance tables the
// first time a balance is read. The tables live and die with one
// budgetData instance; every mutator starts from a fresh clone, so they
// can never go stale.
func (d *budgetData) ensureBalances() {
	if d.accountBalances != nil {
		return
	}
	accountBalances := make(map[int64]int64, len(d.accounts))
	for i := range d.accounts {
		accountBalances[d.accounts[i].id] = d.accounts[i].initialBalance
	}
	txnAccountBalances := make(map[int64]int64)
	for i := range d.transactions {
		txn := &d.transactions[i]
		if txn.pending || txn.accountId == 0 {
			continue
		}
		accountBalances[txn.accountId] += txn.Total()
		txnAccountBalances[txn.id] = accountBalances[txn.accountId]
	}
	d.accountBalances = accountBalances
	d.txnAccountBalances = txnAccountBalances
}

// AccountBalances returns the ending balance of each account: its
// initial balance plus every non-pending transaction on it.
func (b Budget) AccountBalances() map[int64]int64 {
	data := b.data()
	data.ensureBalances()
	result := make(map[int64]int64, len(data.accountBalances))
	for k, v := range data.accountBalances {
		result[k] = v
	}
	return result
}

// AccountBalance returns the ending balance of one account.
func (b Budget) AccountBalance(accountId int64) (balance int64, ok bool) {
	data := b.data()
	data.ensureBalances()
	balance, ok = data.accountBalances[accountId]
	return
}

// AccountBalanceAsOfTransaction returns the running balance of the
// given account just after the given transaction. If the transaction is
// on another account, the balance is the one after the last preceding
// non-pending dated transaction on the account, or the account's
// initial balance if there is none. ok is false if the transaction is
// undated, pending, or missing.
func (b Budget) AccountBalanceAsOfTransaction(
	txnId, accountId int64) (balance int64, ok bool) {
	data := b.data()
	idx, found := data.txnIdx[txnId]
	if !found {
		return
	}
	txn := &data.transactions[idx]
	if txn.date == nil || txn.pending {
		return
	}
	data.ensureBalances()
	if txn.accountId == accountId {
		balance, ok = data.txnAccountBalances[txnId]
		return
	}
	for i := idx - 1; i >= 0; i-- {
		prev := &data.transactions[i]
		if prev.accountId != accountId || prev.pending || prev.date == nil {
			continue
		}
		balance, ok = data.txnAccountBalances[prev.id]
		return
	}
	acctIdx, found := data.accountIdx[accountId]
	if !found {
		return
	}
	return data.accounts[acctIdx].initialBalance, true
}

// CategoryBalancesOnDate returns the realized amount of each category:
// the sum of every detail dated on or before date, keyed by category
// id. Every category appears, at 0 if nothing was realized. date must
// fall inside the budget period.
func (b Budget) CategoryBalancesOnDate(date pdate.Date) map[int64]int64 {
	data := b.data()
	if date < data.startDate || date > data.endDate {
		violation("date %s outside budget period", date)
	}
	result := make(map[int64]int64, len(data.categories))
	for i := range data.categories {
		result[data.categories[i].id] = 0
	}
	for i := range data.transactions {
		txn := &data.transactions[i]
		if txn.date == nil || *txn.date > date {
			break
		}
		for j := range txn.details {
			categoryId := txn.details[j].categoryId
			if categoryId == 0 {
				continue
			}
			result[categoryId] += txn.details[j].amount
		}
	}
	return result
}

// CategoryBalanceByDate returns the realized amount of one category on
// date. The category must exist.
func (b Budget) CategoryBalanceByDate(
	categoryId int64, date pdate.Date) int64 {
	if _, ok := b.data().categoryIdx[categoryId]; !ok {
		violation("no category %d", categoryId)
	}
	return b.CategoryBalancesOnDate(date)[categoryId]
}

// CategoryBudgetsOnDate returns the budgeted amount of each category on
// date, keyed by category id. Automatic categories are budgeted at
// their realized amount; ruled categories at the sum of each rule's
// amount times its occurrences from the budget start through date.
func (b Budget) CategoryBudgetsOnDate(date pdate.Date) map[int64]int64 {
	data := b.data()
	balances := b.CategoryBalancesOnDate(date)
	result := make(map[int64]int64, len(data.categories))
	for i := range data.categories {
		category := &data.categories[i]
		if category.IsAutomatic() {
			result[category.id] = balances[category.id]
			continue
		}
		var total int64
		for j := range category.rules {
			rule := &category.rules[j]
			total += rule.amount *
				int64(rule.CountOccurrencesBetween(data.startDate, date))
		}
		result[category.id] = total
	}
	return result
}
