// Package fin declares the core types of the budget engine: immutable
// value records for accounts, category groups, categories, and
// transactions, plus the Budget aggregate that owns them. Values are
// never modified in place; builders and With methods produce new
// instances and check invariants as they go.
package fin

import (
	"fmt"
	"reflect"

	"github.com/keep94/budget/pdate"
)

const kDefaultCurrencyCode = "USD"

// InvariantViolation is the panic value raised when a record or Budget
// would end up in a state that breaks one of its invariants. Callers
// that feed unchecked input to builders or mutators recover it at the
// boundary.
type InvariantViolation struct {
	Reason string
}

func (v InvariantViolation) Error() string {
	return "fin: " + v.Reason
}

func violation(format string, args ...interface{}) {
	panic(InvariantViolation{Reason: fmt.Sprintf(format, args...)})
}

// Metadata holds free-form data attached to a record. Metadata maps are
// treated as values: accessors hand out copies and builders copy what
// they are given.
type Metadata map[string]interface{}

// Equal returns true if m and other hold the same keys and deeply equal
// values. A nil map equals an empty one.
func (m Metadata) Equal(other Metadata) bool {
	if len(m) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(m, other)
}

func (m Metadata) clone() Metadata {
	if m == nil {
		return nil
	}
	result := make(Metadata, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// Account represents a place money moves in and out of, such as a
// checking account or a credit card.
type Account struct {
	id             int64
	name           string
	initialBalance int64
	currencyCode   string
	metadata       Metadata
}

// Id returns the account id. 0 means the account has no id yet.
func (a Account) Id() int64 {
	return a.id
}

// Name returns the account name.
func (a Account) Name() string {
	return a.name
}

// InitialBalance returns the account's starting balance in minor units.
// It may be negative.
func (a Account) InitialBalance() int64 {
	return a.initialBalance
}

// CurrencyCode returns the code of the account's currency.
func (a Account) CurrencyCode() string {
	return a.currencyCode
}

// Metadata returns a copy of the account's metadata.
func (a Account) Metadata() Metadata {
	return a.metadata.clone()
}

// WithId returns a copy of this account with the given id.
func (a Account) WithId(id int64) Account {
	result := a
	result.id = id
	result.checkInvariants()
	return result
}

// Equal returns true if a and other are structurally equal.
func (a Account) Equal(other Account) bool {
	return a.id == other.id &&
		a.name == other.name &&
		a.initialBalance == other.initialBalance &&
		a.currencyCode == other.currencyCode &&
		a.metadata.Equal(other.metadata)
}

func (a Account) checkInvariants() {
	if a.id < 0 {
		violation("account id must not be negative")
	}
	if a.currencyCode == "" {
		violation("account needs a currency")
	}
}

// AccountBuilder builds Account values. The zero value is ready to use
// and builds an account in the default currency.
type AccountBuilder struct {
	account Account
	init    bool
}

// Set sets this builder to account so that Build returns an equal value.
func (b *AccountBuilder) Set(account Account) *AccountBuilder {
	b.init = true
	b.account = account
	return b
}

func (b *AccountBuilder) SetId(id int64) *AccountBuilder {
	b.initialize()
	b.account.id = id
	return b
}

func (b *AccountBuilder) SetName(name string) *AccountBuilder {
	b.initialize()
	b.account.name = name
	return b
}

func (b *AccountBuilder) SetInitialBalance(x int64) *AccountBuilder {
	b.initialize()
	b.account.initialBalance = x
	return b
}

func (b *AccountBuilder) SetCurrency(code string) *AccountBuilder {
	b.initialize()
	b.account.currencyCode = code
	return b
}

func (b *AccountBuilder) SetMetadata(m Metadata) *AccountBuilder {
	b.initialize()
	b.account.metadata = m.clone()
	return b
}

// Build returns the built account and resets this builder. Build panics
// with InvariantViolation if the account would be invalid.
func (b *AccountBuilder) Build() Account {
	b.initialize()
	result := b.account
	*b = AccountBuilder{}
	result.checkInvariants()
	return result
}

func (b *AccountBuilder) initialize() {
	if !b.init {
		b.init = true
		b.account.currencyCode = kDefaultCurrencyCode
	}
}

// CategoryGroup is a named group of spending categories.
type CategoryGroup struct {
	id   int64
	name string
}

// NewCategoryGroup creates a category group. id 0 means no id yet.
func NewCategoryGroup(id int64, name string) CategoryGroup {
	if id < 0 {
		violation("category group id must not be negative")
	}
	return CategoryGroup{id: id, name: name}
}

// Id returns the group id. 0 means the group has no id yet.
func (g CategoryGroup) Id() int64 {
	return g.id
}

// Name returns the group name.
func (g CategoryGroup) Name() string {
	return g.name
}

// WithId returns a copy of this group with the given id.
func (g CategoryGroup) WithId(id int64) CategoryGroup {
	return NewCategoryGroup(id, g.name)
}

// WithName returns a copy of this group with the given name.
func (g CategoryGroup) WithName(name string) CategoryGroup {
	return NewCategoryGroup(g.id, name)
}

// Equal returns true if g and other are structurally equal.
func (g CategoryGroup) Equal(other CategoryGroup) bool {
	return g == other
}

// Category is a spending category. A category is either automatic, in
// which case its budgeted amount follows its realized spending, or it
// carries a list of spending rules that determine the budget.
type Category struct {
	id           int64
	name         string
	notes        string
	currencyCode string
	groupId      int64
	ruled        bool
	rules        []CategoryRule
	metadata     Metadata
}

// Id returns the category id. 0 means the category has no id yet.
func (c Category) Id() int64 {
	return c.id
}

// Name returns the category name.
func (c Category) Name() string {
	return c.name
}

// Notes returns the free-form notes on the category.
func (c Category) Notes() string {
	return c.notes
}

// CurrencyCode returns the code of the category's currency.
func (c Category) CurrencyCode() string {
	return c.currencyCode
}

// GroupId returns the id of the group this category belongs to, or 0 if
// it belongs to no group.
func (c Category) GroupId() int64 {
	return c.groupId
}

// IsAutomatic returns true if this category has no rules and its
// budgeted amount is derived from realized transactions.
func (c Category) IsAutomatic() bool {
	return !c.ruled
}

// Rules returns a copy of the category's rules or nil if the category
// is automatic. A non-nil empty result means the category is budgeted
// deterministically at zero.
func (c Category) Rules() []CategoryRule {
	if !c.ruled {
		return nil
	}
	result := make([]CategoryRule, len(c.rules))
	copy(result, c.rules)
	return result
}

// RuleCount returns the number of rules. Automatic categories have 0.
func (c Category) RuleCount() int {
	return len(c.rules)
}

// RuleByIndex returns the rule at index idx.
func (c Category) RuleByIndex(idx int) CategoryRule {
	return c.rules[idx]
}

// Metadata returns a copy of the category's metadata.
func (c Category) Metadata() Metadata {
	return c.metadata.clone()
}

// WithId returns a copy of this category with the given id.
func (c Category) WithId(id int64) Category {
	result := c
	result.id = id
	result.checkInvariants()
	return result
}

// Equal returns true if c and other are structurally equal.
func (c Category) Equal(other Category) bool {
	if c.id != other.id || c.name != other.name || c.notes != other.notes ||
		c.currencyCode != other.currencyCode || c.groupId != other.groupId ||
		c.ruled != other.ruled || len(c.rules) != len(other.rules) ||
		!c.metadata.Equal(other.metadata) {
		return false
	}
	for i := range c.rules {
		if !c.rules[i].Equal(other.rules[i]) {
			return false
		}
	}
	return true
}

func (c Category) checkInvariants() {
	if c.id < 0 {
		violation("category id must not be negative")
	}
	if c.groupId < 0 {
		violation("category group id must not be negative")
	}
	if c.currencyCode == "" {
		violation("category needs a currency")
	}
	if !c.ruled && c.rules != nil {
		violation("automatic category cannot carry rules")
	}
}

// CategoryBuilder builds Category values. The zero value is ready to
// use and builds an automatic category in the default currency.
type CategoryBuilder struct {
	category Category
	init     bool
}

// Set sets this builder to category so that Build returns an equal
// value.
func (b *CategoryBuilder) Set(category Category) *CategoryBuilder {
	b.init = true
	b.category = category
	if category.rules != nil {
		rules := make([]CategoryRule, len(category.rules))
		copy(rules, category.rules)
		b.category.rules = rules
	}
	return b
}

func (b *CategoryBuilder) SetId(id int64) *CategoryBuilder {
	b.initialize()
	b.category.id = id
	return b
}

func (b *CategoryBuilder) SetName(name string) *CategoryBuilder {
	b.initialize()
	b.category.name = name
	return b
}

func (b *CategoryBuilder) SetNotes(notes string) *CategoryBuilder {
	b.initialize()
	b.category.notes = notes
	return b
}

func (b *CategoryBuilder) SetCurrency(code string) *CategoryBuilder {
	b.initialize()
	b.category.currencyCode = code
	return b
}

func (b *CategoryBuilder) SetGroupId(id int64) *CategoryBuilder {
	b.initialize()
	b.category.groupId = id
	return b
}

// SetAutomatic clears any rules and marks the category automatic.
func (b *CategoryBuilder) SetAutomatic() *CategoryBuilder {
	b.initialize()
	b.category.ruled = false
	b.category.rules = nil
	return b
}

// SetRules replaces the category's rules. Passing an empty slice budgets
// the category deterministically at zero; to make the category
// automatic use SetAutomatic.
func (b *CategoryBuilder) SetRules(rules []CategoryRule) *CategoryBuilder {
	b.initialize()
	b.category.ruled = true
	b.category.rules = make([]CategoryRule, len(rules))
	copy(b.category.rules, rules)
	return b
}

// AddRule appends a rule, marking the category ruled if it was
// automatic.
func (b *CategoryBuilder) AddRule(rule CategoryRule) *CategoryBuilder {
	b.initialize()
	b.category.ruled = true
	if b.category.rules == nil {
		b.category.rules = []CategoryRule{}
	}
	b.category.rules = append(b.category.rules, rule)
	return b
}

func (b *CategoryBuilder) SetMetadata(m Metadata) *CategoryBuilder {
	b.initialize()
	b.category.metadata = m.clone()
	return b
}

// Build returns the built category and resets this builder. Build
// panics with InvariantViolation if the category would be invalid.
func (b *CategoryBuilder) Build() Category {
	b.initialize()
	result := b.category
	*b = CategoryBuilder{}
	if result.ruled && result.rules == nil {
		result.rules = []CategoryRule{}
	}
	result.checkInvariants()
	return result
}

func (b *CategoryBuilder) initialize() {
	if !b.init {
		b.init = true
		b.category.currencyCode = kDefaultCurrencyCode
	}
}

// TransactionDetail is one leg of a potentially split transaction.
type TransactionDetail struct {
	amount      int64
	description string
	categoryId  int64
}

// NewTransactionDetail creates a detail. categoryId 0 means the leg is
// uncategorized.
func NewTransactionDetail(
	amount int64, description string, categoryId int64) TransactionDetail {
	if categoryId < 0 {
		violation("detail category id must not be negative")
	}
	return TransactionDetail{
		amount: amount, description: description, categoryId: categoryId}
}

// Amount returns the amount of this leg in minor units.
func (d TransactionDetail) Amount() int64 {
	return d.amount
}

// Description returns the description of this leg.
func (d TransactionDetail) Description() string {
	return d.description
}

// CategoryId returns the category of this leg, or 0 if uncategorized.
func (d TransactionDetail) CategoryId() int64 {
	return d.categoryId
}

// WithCategoryId returns a copy of this detail with the given category.
func (d TransactionDetail) WithCategoryId(id int64) TransactionDetail {
	return NewTransactionDetail(d.amount, d.description, id)
}

// Equal returns true if d and other are structurally equal.
func (d TransactionDetail) Equal(other TransactionDetail) bool {
	return d == other
}

// Transaction represents money moving on a single date, split across
// one or more details.
type Transaction struct {
	id        int64
	date      *pdate.Date
	accountId int64
	who       string
	userId    int64
	details   []TransactionDetail
	pending   bool
	transfer  bool
	metadata  Metadata
}

// Id returns the transaction id. 0 means the transaction has no id yet.
func (t Transaction) Id() int64 {
	return t.id
}

// Date returns the transaction date. ok is false if the transaction is
// undated.
func (t Transaction) Date() (date pdate.Date, ok bool) {
	if t.date == nil {
		return
	}
	return *t.date, true
}

// AccountId returns the id of the account this transaction belongs to,
// or 0 if it belongs to no account.
func (t Transaction) AccountId() int64 {
	return t.accountId
}

// Who returns who the money moved to or from.
func (t Transaction) Who() string {
	return t.who
}

// UserId returns the id of the user who recorded the transaction, or 0.
func (t Transaction) UserId() int64 {
	return t.userId
}

// DetailCount returns the number of details. It is always at least 1.
func (t Transaction) DetailCount() int {
	return len(t.details)
}

// DetailByIndex returns the detail at index idx.
func (t Transaction) DetailByIndex(idx int) TransactionDetail {
	return t.details[idx]
}

// Details returns a copy of the details.
func (t Transaction) Details() []TransactionDetail {
	result := make([]TransactionDetail, len(t.details))
	copy(result, t.details)
	return result
}

// Pending returns true if the transaction has not cleared. Pending
// transactions are excluded from account balances.
func (t Transaction) Pending() bool {
	return t.pending
}

// IsTransfer returns true if the transaction moves money between
// accounts. Transfer details carry no categories.
func (t Transaction) IsTransfer() bool {
	return t.transfer
}

// Metadata returns a copy of the transaction's metadata.
func (t Transaction) Metadata() Metadata {
	return t.metadata.clone()
}

// Total returns the sum of the detail amounts.
func (t Transaction) Total() int64 {
	var result int64
	for i := range t.details {
		result += t.details[i].amount
	}
	return result
}

// IsSplit returns true if the transaction has more than one detail.
func (t Transaction) IsSplit() bool {
	return len(t.details) > 1
}

// WithId returns a copy of this transaction with the given id.
func (t Transaction) WithId(id int64) Transaction {
	result := t
	result.id = id
	result.checkInvariants()
	return result
}

// WithAccountId returns a copy of this transaction linked to the given
// account. Passing 0 unlinks it.
func (t Transaction) WithAccountId(id int64) Transaction {
	result := t
	result.accountId = id
	result.checkInvariants()
	return result
}

// WithDetailCategoryId returns a copy of this transaction whose detail
// at idx carries the given category.
func (t Transaction) WithDetailCategoryId(idx int, categoryId int64) Transaction {
	result := t
	details := make([]TransactionDetail, len(t.details))
	copy(details, t.details)
	details[idx] = details[idx].WithCategoryId(categoryId)
	result.details = details
	result.checkInvariants()
	return result
}

// Equal returns true if t and other are structurally equal.
func (t Transaction) Equal(other Transaction) bool {
	if t.id != other.id || t.accountId != other.accountId ||
		t.who != other.who || t.userId != other.userId ||
		t.pending != other.pending || t.transfer != other.transfer ||
		len(t.details) != len(other.details) ||
		!t.metadata.Equal(other.metadata) {
		return false
	}
	if (t.date == nil) != (other.date == nil) {
		return false
	}
	if t.date != nil && *t.date != *other.date {
		return false
	}
	for i := range t.details {
		if t.details[i] != other.details[i] {
			return false
		}
	}
	return true
}

func (t Transaction) checkInvariants() {
	if t.id < 0 {
		violation("transaction id must not be negative")
	}
	if t.accountId < 0 {
		violation("transaction account id must not be negative")
	}
	if t.userId < 0 {
		violation("transaction user id must not be negative")
	}
	if len(t.details) == 0 {
		violation("transaction needs at least one detail")
	}
	if t.transfer {
		for i := range t.details {
			if t.details[i].categoryId != 0 {
				violation("transfer details cannot carry categories")
			}
		}
	}
}

// sortKey orders transactions chronologically with undated ones last.
func (t Transaction) sortKey() int {
	if t.date == nil {
		return kNullDateSortKey
	}
	return t.date.Value()
}

const kNullDateSortKey = 999999

// TransactionBuilder builds Transaction values. The zero value is ready
// to use.
type TransactionBuilder struct {
	txn  Transaction
	init bool
}

// Set sets this builder to txn so that Build returns an equal value.
func (b *TransactionBuilder) Set(txn Transaction) *TransactionBuilder {
	b.init = true
	b.txn = txn
	details := make([]TransactionDetail, len(txn.details))
	copy(details, txn.details)
	b.txn.details = details
	return b
}

func (b *TransactionBuilder) SetId(id int64) *TransactionBuilder {
	b.initialize()
	b.txn.id = id
	return b
}

func (b *TransactionBuilder) SetDate(date pdate.Date) *TransactionBuilder {
	b.initialize()
	b.txn.date = &date
	return b
}

// ClearDate makes the transaction undated. Undated transactions sort
// after all dated ones.
func (b *TransactionBuilder) ClearDate() *TransactionBuilder {
	b.initialize()
	b.txn.date = nil
	return b
}

func (b *TransactionBuilder) SetAccountId(id int64) *TransactionBuilder {
	b.initialize()
	b.txn.accountId = id
	return b
}

func (b *TransactionBuilder) SetWho(who string) *TransactionBuilder {
	b.initialize()
	b.txn.who = who
	return b
}

func (b *TransactionBuilder) SetUserId(id int64) *TransactionBuilder {
	b.initialize()
	b.txn.userId = id
	return b
}

// SetDetails replaces the details.
func (b *TransactionBuilder) SetDetails(
	details []TransactionDetail) *TransactionBuilder {
	b.initialize()
	b.txn.details = make([]TransactionDetail, len(details))
	copy(b.txn.details, details)
	return b
}

// AddDetail appends a detail.
func (b *TransactionBuilder) AddDetail(
	detail TransactionDetail) *TransactionBuilder {
	b.initialize()
	b.txn.details = append(b.txn.details, detail)
	return b
}

// ClearDetails removes all details. Build panics unless at least one
// detail is added afterwards.
func (b *TransactionBuilder) ClearDetails() *TransactionBuilder {
	b.initialize()
	b.txn.details = nil
	return b
}

func (b *TransactionBuilder) SetPending(pending bool) *TransactionBuilder {
	b.initialize()
	b.txn.pending = pending
	return b
}

func (b *TransactionBuilder) SetTransfer(transfer bool) *TransactionBuilder {
	b.initialize()
	b.txn.transfer = transfer
	return b
}

func (b *TransactionBuilder) SetMetadata(m Metadata) *TransactionBuilder {
	b.initialize()
	b.txn.metadata = m.clone()
	return b
}

// Build returns the built transaction and resets this builder. Build
// panics with InvariantViolation if the transaction would be invalid.
func (b *TransactionBuilder) Build() Transaction {
	b.initialize()
	result := b.txn
	*b = TransactionBuilder{}
	result.checkInvariants()
	return result
}

func (b *TransactionBuilder) initialize() {
	if !b.init {
		b.init = true
	}
}
