package fin

import (
	"sort"
	"time"

	"github.com/keep94/budget/pdate"
)

// Budget is the aggregate root: it owns ordered accounts, category
// groups, dual-ordered categories, and chronologically ordered
// transactions, and enforces the invariants between them. Budget works
// like a value type: the zero value is an empty budget covering the
// current year, and every mutator returns a new Budget leaving the
// receiver untouched.
type Budget struct {
	_data *budgetData
}

type budgetData struct {
	id           int64
	name         string
	currencyCode string
	startDate    pdate.Date
	endDate      pdate.Date

	// accounts and groups iterate in user-defined order. categories
	// iterate primarily in group order, secondarily in the user's
	// order within each group. transactions iterate chronologically
	// with undated ones last.
	accounts     []Account
	groups       []CategoryGroup
	categories   []Category
	transactions []Transaction

	accountIdx  map[int64]int
	groupIdx    map[int64]int
	categoryIdx map[int64]int
	txnIdx      map[int64]int

	// lazily built balance tables, see balances.go
	accountBalances    map[int64]int64
	txnAccountBalances map[int64]int64
}

var kEmptyData = func() *budgetData {
	d := &budgetData{currencyCode: kDefaultCurrencyCode}
	d.startDate, d.endDate = defaultPeriod()
	buildIndexes(d)
	return d
}()

func defaultPeriod() (start, end pdate.Date) {
	year := time.Now().Year()
	if year < pdate.MinYear {
		year = pdate.MinYear
	}
	if year > pdate.MaxYear {
		year = pdate.MaxYear
	}
	return pdate.YMD(year, 1, 1), pdate.YMD(year, 12, 31)
}

func (b Budget) data() *budgetData {
	if b._data == nil {
		return kEmptyData
	}
	return b._data
}

// Id returns the budget id. 0 means the budget has no id yet.
func (b Budget) Id() int64 {
	return b.data().id
}

// Name returns the budget name.
func (b Budget) Name() string {
	return b.data().name
}

// CurrencyCode returns the code of the budget's display currency.
func (b Budget) CurrencyCode() string {
	return b.data().currencyCode
}

// StartDate returns the inclusive start of the budget period.
func (b Budget) StartDate() pdate.Date {
	return b.data().startDate
}

// EndDate returns the inclusive end of the budget period.
func (b Budget) EndDate() pdate.Date {
	return b.data().endDate
}

// Accounts returns the accounts in user-defined order.
func (b Budget) Accounts() []Account {
	data := b.data()
	result := make([]Account, len(data.accounts))
	copy(result, data.accounts)
	return result
}

// AccountCount returns the number of accounts.
func (b Budget) AccountCount() int {
	return len(b.data().accounts)
}

// AccountById fetches an account by id.
func (b Budget) AccountById(id int64) (account Account, ok bool) {
	data := b.data()
	idx, ok := data.accountIdx[id]
	if !ok {
		return
	}
	return data.accounts[idx], true
}

// AccountIndex returns the position of the account with the given id in
// the user-defined order.
func (b Budget) AccountIndex(id int64) (index int, ok bool) {
	index, ok = b.data().accountIdx[id]
	return
}

// CategoryGroups returns the category groups in user-defined order.
func (b Budget) CategoryGroups() []CategoryGroup {
	data := b.data()
	result := make([]CategoryGroup, len(data.groups))
	copy(result, data.groups)
	return result
}

// CategoryGroupById fetches a category group by id.
func (b Budget) CategoryGroupById(id int64) (group CategoryGroup, ok bool) {
	data := b.data()
	idx, ok := data.groupIdx[id]
	if !ok {
		return
	}
	return data.groups[idx], true
}

// CategoryGroupIndex returns the position of the group with the given
// id in the user-defined order.
func (b Budget) CategoryGroupIndex(id int64) (index int, ok bool) {
	index, ok = b.data().groupIdx[id]
	return
}

// Categories returns the categories, primarily in group order and
// secondarily in the user's order within each group.
func (b Budget) Categories() []Category {
	data := b.data()
	result := make([]Category, len(data.categories))
	copy(result, data.categories)
	return result
}

// CategoryById fetches a category by id.
func (b Budget) CategoryById(id int64) (category Category, ok bool) {
	data := b.data()
	idx, ok := data.categoryIdx[id]
	if !ok {
		return
	}
	return data.categories[idx], true
}

// CategoriesByGroup returns the categories of one group in the user's
// order.
func (b Budget) CategoriesByGroup(groupId int64) []Category {
	data := b.data()
	var result []Category
	for i := range data.categories {
		if data.categories[i].groupId == groupId {
			result = append(result, data.categories[i])
		}
	}
	return result
}

// CategoryIndexInGroup returns the position of the category with the
// given id within its own group.
func (b Budget) CategoryIndexInGroup(id int64) (index int, ok bool) {
	data := b.data()
	idx, ok := data.categoryIdx[id]
	if !ok {
		return
	}
	groupId := data.categories[idx].groupId
	for i := 0; i < idx; i++ {
		if data.categories[i].groupId == groupId {
			index++
		}
	}
	return index, true
}

// Transactions returns the transactions in chronological order with
// undated ones last.
func (b Budget) Transactions() []Transaction {
	data := b.data()
	result := make([]Transaction, len(data.transactions))
	copy(result, data.transactions)
	return result
}

// TransactionCount returns the number of transactions.
func (b Budget) TransactionCount() int {
	return len(b.data().transactions)
}

// TransactionById fetches a transaction by id.
func (b Budget) TransactionById(id int64) (txn Transaction, ok bool) {
	data := b.data()
	idx, ok := data.txnIdx[id]
	if !ok {
		return
	}
	return data.transactions[idx], true
}

// Equal returns true if b and other are structurally equal, including
// the order of every collection.
func (b Budget) Equal(other Budget) bool {
	d, o := b.data(), other.data()
	if d.id != o.id || d.name != o.name ||
		d.currencyCode != o.currencyCode ||
		d.startDate != o.startDate || d.endDate != o.endDate ||
		len(d.accounts) != len(o.accounts) ||
		len(d.groups) != len(o.groups) ||
		len(d.categories) != len(o.categories) ||
		len(d.transactions) != len(o.transactions) {
		return false
	}
	for i := range d.accounts {
		if !d.accounts[i].Equal(o.accounts[i]) {
			return false
		}
	}
	for i := range d.groups {
		if !d.groups[i].Equal(o.groups[i]) {
			return false
		}
	}
	for i := range d.categories {
		if !d.categories[i].Equal(o.categories[i]) {
			return false
		}
	}
	for i := range d.transactions {
		if !d.transactions[i].Equal(o.transactions[i]) {
			return false
		}
	}
	return true
}

// Validate reports the soft issues of every transaction in this budget.
func (b Budget) Validate() *ValidationResult {
	result := &ValidationResult{}
	ctx := &ValidationContext{budget: b, result: result}
	data := b.data()
	for i := range data.transactions {
		data.transactions[i].validate(ctx)
	}
	return result
}

// clone copies data with fresh slices and no indexes or caches.
func (d *budgetData) clone() *budgetData {
	result := &budgetData{
		id:           d.id,
		name:         d.name,
		currencyCode: d.currencyCode,
		startDate:    d.startDate,
		endDate:      d.endDate,
	}
	result.accounts = make([]Account, len(d.accounts))
	copy(result.accounts, d.accounts)
	result.groups = make([]CategoryGroup, len(d.groups))
	copy(result.groups, d.groups)
	result.categories = make([]Category, len(d.categories))
	copy(result.categories, d.categories)
	result.transactions = make([]Transaction, len(d.transactions))
	copy(result.transactions, d.transactions)
	return result
}

// newBudget indexes data, checks every budget invariant, and wraps it.
func newBudget(d *budgetData) Budget {
	buildIndexes(d)
	checkBudgetInvariants(d)
	return Budget{_data: d}
}

func buildIndexes(d *budgetData) {
	d.accountIdx = make(map[int64]int, len(d.accounts))
	for i := range d.accounts {
		id := d.accounts[i].id
		if id == 0 {
			violation("account in budget needs an id")
		}
		if _, ok := d.accountIdx[id]; ok {
			violation("duplicate account id %d", id)
		}
		d.accountIdx[id] = i
	}
	d.groupIdx = make(map[int64]int, len(d.groups))
	for i := range d.groups {
		id := d.groups[i].id
		if id == 0 {
			violation("category group in budget needs an id")
		}
		if _, ok := d.groupIdx[id]; ok {
			violation("duplicate category group id %d", id)
		}
		d.groupIdx[id] = i
	}
	d.categoryIdx = make(map[int64]int, len(d.categories))
	for i := range d.categories {
		id := d.categories[i].id
		if id == 0 {
			violation("category in budget needs an id")
		}
		if _, ok := d.categoryIdx[id]; ok {
			violation("duplicate category id %d", id)
		}
		d.categoryIdx[id] = i
	}
	d.txnIdx = make(map[int64]int, len(d.transactions))
	for i := range d.transactions {
		id := d.transactions[i].id
		if id == 0 {
			violation("transaction in budget needs an id")
		}
		if _, ok := d.txnIdx[id]; ok {
			violation("duplicate transaction id %d", id)
		}
		d.txnIdx[id] = i
	}
}

func checkBudgetInvariants(d *budgetData) {
	if d.endDate < d.startDate {
		violation("budget period runs backwards")
	}
	if _, ok := CurrencyByCode(d.currencyCode); !ok {
		violation("unknown currency %q", d.currencyCode)
	}
	for i := range d.accounts {
		if _, ok := CurrencyByCode(d.accounts[i].currencyCode); !ok {
			violation(
				"account %d has unknown currency %q",
				d.accounts[i].id, d.accounts[i].currencyCode)
		}
	}
	for i := range d.categories {
		category := &d.categories[i]
		if category.groupId == 0 {
			violation("category %d in budget needs a group", category.id)
		}
		if _, ok := d.groupIdx[category.groupId]; !ok {
			violation(
				"category %d references missing group %d",
				category.id, category.groupId)
		}
		if _, ok := CurrencyByCode(category.currencyCode); !ok {
			violation(
				"category %d has unknown currency %q",
				category.id, category.currencyCode)
		}
		checkRuleOverlap(d, category)
	}
	for i := range d.transactions {
		accountId := d.transactions[i].accountId
		if accountId != 0 {
			if _, ok := d.accountIdx[accountId]; !ok {
				violation(
					"transaction %d references missing account %d",
					d.transactions[i].id, accountId)
			}
		}
	}
}

// checkRuleOverlap verifies that no two rules of category fire inside
// each other's effective window clamped to the budget period. Every
// ordered pair is checked.
func checkRuleOverlap(d *budgetData, category *Category) {
	rules := category.rules
	for i := range rules {
		for j := range rules {
			if i == j {
				continue
			}
			begin := d.startDate
			if rules[j].start != nil && *rules[j].start > begin {
				begin = *rules[j].start
			}
			end := d.endDate
			if rules[j].end != nil && *rules[j].end < end {
				end = *rules[j].end
			}
			if end < begin {
				continue
			}
			if rules[i].CountOccurrencesBetween(begin, end) > 0 {
				violation(
					"category %d has overlapping rules", category.id)
			}
		}
	}
}

// sortCategories orders categories primarily by group order and
// secondarily by their current relative order.
func sortCategories(d *budgetData) {
	groupIdx := make(map[int64]int, len(d.groups))
	for i := range d.groups {
		groupIdx[d.groups[i].id] = i
	}
	sort.SliceStable(d.categories, func(i, j int) bool {
		return groupIdx[d.categories[i].groupId] <
			groupIdx[d.categories[j].groupId]
	})
}

// sortTransactions orders transactions chronologically keeping the
// previous relative order for equal dates. Undated transactions sort
// last.
func sortTransactions(d *budgetData) {
	sort.SliceStable(d.transactions, func(i, j int) bool {
		return d.transactions[i].sortKey() < d.transactions[j].sortKey()
	})
}

// BudgetBuilder builds Budget values. The zero value is ready to use
// and builds an empty budget covering the current year. Invariants are
// checked once at Build.
type BudgetBuilder struct {
	data *budgetData
}

// Set sets this builder to budget so that Build returns an equal value.
func (b *BudgetBuilder) Set(budget Budget) *BudgetBuilder {
	b.data = budget.data().clone()
	return b
}

func (b *BudgetBuilder) SetId(id int64) *BudgetBuilder {
	b.initialize()
	b.data.id = id
	return b
}

func (b *BudgetBuilder) SetName(name string) *BudgetBuilder {
	b.initialize()
	b.data.name = name
	return b
}

func (b *BudgetBuilder) SetCurrency(code string) *BudgetBuilder {
	b.initialize()
	b.data.currencyCode = code
	return b
}

func (b *BudgetBuilder) SetStartDate(date pdate.Date) *BudgetBuilder {
	b.initialize()
	b.data.startDate = date
	return b
}

func (b *BudgetBuilder) SetEndDate(date pdate.Date) *BudgetBuilder {
	b.initialize()
	b.data.endDate = date
	return b
}

// AddAccount appends an account to the user-defined order.
func (b *BudgetBuilder) AddAccount(account Account) *BudgetBuilder {
	b.initialize()
	b.data.accounts = append(b.data.accounts, account)
	return b
}

// AddCategoryGroup appends a group to the user-defined order.
func (b *BudgetBuilder) AddCategoryGroup(group CategoryGroup) *BudgetBuilder {
	b.initialize()
	b.data.groups = append(b.data.groups, group)
	return b
}

// AddCategory appends a category. Build places it in dual order.
func (b *BudgetBuilder) AddCategory(category Category) *BudgetBuilder {
	b.initialize()
	b.data.categories = append(b.data.categories, category)
	return b
}

// AddTransaction appends a transaction. Build places it in
// chronological order.
func (b *BudgetBuilder) AddTransaction(txn Transaction) *BudgetBuilder {
	b.initialize()
	b.data.transactions = append(b.data.transactions, txn)
	return b
}

// Build returns the built budget and resets this builder. Build panics
// with InvariantViolation if any budget invariant would be violated.
func (b *BudgetBuilder) Build() Budget {
	b.initialize()
	data := b.data
	b.data = nil
	sortCategories(data)
	sortTransactions(data)
	return newBudget(data)
}

func (b *BudgetBuilder) initialize() {
	if b.data == nil {
		b.data = kEmptyData.clone()
	}
}
