// Package commands defines the mutations that can be applied to a
// fin.Budget: a fixed set of plain command records, a pure reducer
// that applies them, and an inverter that synthesizes the exact undo
// command for any of them.
package commands

import (
	"encoding/json"

	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/pdate"
)

// TypePrefix starts the type tag of every command this engine
// recognizes. Commands with a foreign prefix pass through untouched.
const TypePrefix = "budget/"

const (
	NoopType                       = TypePrefix + "NOOP"
	SetCurrencyType                = TypePrefix + "SET_CURRENCY"
	SetDateType                    = TypePrefix + "SET_DATE"
	SetNameType                    = TypePrefix + "SET_NAME"
	DeleteAccountType              = TypePrefix + "DELETE_ACCOUNT"
	UpdateAccountType              = TypePrefix + "UPDATE_ACCOUNT"
	DeleteCategoryType             = TypePrefix + "DELETE_CATEGORY"
	UpdateCategoryType             = TypePrefix + "UPDATE_CATEGORY"
	DeleteCategoryGroupType        = TypePrefix + "DELETE_CATEGORY_GROUP"
	UpdateCategoryGroupType        = TypePrefix + "UPDATE_CATEGORY_GROUP"
	DeleteTransactionType          = TypePrefix + "DELETE_TRANSACTION"
	UpdateTransactionType          = TypePrefix + "UPDATE_TRANSACTION"
	UpdateMultipleTransactionsType = TypePrefix +
		"UPDATE_MULTIPLE_TRANSACTIONS"
)

// Command is a plain record describing one mutation to a budget. All
// commands carry an optional BudgetId; 0 means the command applies to
// whatever budget it is reduced against.
type Command interface {
	// CommandType returns the type tag of this command.
	CommandType() string
}

// Noop changes nothing.
type Noop struct {
	BudgetId int64
}

func (c Noop) CommandType() string { return NoopType }

// SetCurrency sets the budget's display currency.
type SetCurrency struct {
	BudgetId     int64
	CurrencyCode string
}

func (c SetCurrency) CommandType() string { return SetCurrencyType }

// SetDate sets either or both ends of the budget period. A nil field
// leaves that end alone.
type SetDate struct {
	BudgetId  int64
	StartDate *pdate.Date
	EndDate   *pdate.Date
}

func (c SetDate) CommandType() string { return SetDateType }

// SetName sets the budget name.
type SetName struct {
	BudgetId int64
	Name     string
}

func (c SetName) CommandType() string { return SetNameType }

// DeleteAccount removes an account, unlinking its transactions.
type DeleteAccount struct {
	BudgetId int64
	Id       int64
}

func (c DeleteAccount) CommandType() string { return DeleteAccountType }

// UpdateAccount creates or updates the account with the given id. On
// creation, LinkNullTransactions may name transactions to link to the
// new account; only transactions currently on no account are linked.
// A non-nil Index repositions the account afterwards.
type UpdateAccount struct {
	BudgetId             int64
	Id                   int64
	Data                 *AccountPatch
	Index                *int
	LinkNullTransactions []int64
}

func (c UpdateAccount) CommandType() string { return UpdateAccountType }

// DeleteCategory removes a category, uncategorizing its details.
type DeleteCategory struct {
	BudgetId int64
	Id       int64
}

func (c DeleteCategory) CommandType() string { return DeleteCategoryType }

// DetailRef names one detail of one transaction.
type DetailRef struct {
	TransactionId int64
	DetailIndex   int
}

// UpdateCategory creates or updates the category with the given id. On
// creation, LinkTransactionDetails may name details to attach to the
// new category; only details currently on no category are attached.
// A non-nil Index repositions the category within its group.
type UpdateCategory struct {
	BudgetId               int64
	Id                     int64
	Data                   *CategoryPatch
	Index                  *int
	LinkTransactionDetails []DetailRef
}

func (c UpdateCategory) CommandType() string { return UpdateCategoryType }

// DeleteCategoryGroup removes an empty category group.
type DeleteCategoryGroup struct {
	BudgetId int64
	Id       int64
}

func (c DeleteCategoryGroup) CommandType() string {
	return DeleteCategoryGroupType
}

// UpdateCategoryGroup creates or updates the group with the given id.
// A non-nil Index repositions it.
type UpdateCategoryGroup struct {
	BudgetId int64
	Id       int64
	Data     *CategoryGroupPatch
	Index    *int
}

func (c UpdateCategoryGroup) CommandType() string {
	return UpdateCategoryGroupType
}

// DeleteTransaction removes a transaction.
type DeleteTransaction struct {
	BudgetId int64
	Id       int64
}

func (c DeleteTransaction) CommandType() string {
	return DeleteTransactionType
}

// UpdateTransaction creates or updates the transaction with the given
// id. Position always follows from the date.
type UpdateTransaction struct {
	BudgetId int64
	Id       int64
	Data     *TransactionPatch
}

func (c UpdateTransaction) CommandType() string {
	return UpdateTransactionType
}

// UpdateMultipleTransactions applies its sub-commands in order. It is
// the only compound command. Every sub-command must be an
// UpdateTransaction or DeleteTransaction and must not target another
// budget.
type UpdateMultipleTransactions struct {
	BudgetId   int64
	SubActions []Command
}

func (c UpdateMultipleTransactions) CommandType() string {
	return UpdateMultipleTransactionsType
}

// Raw is a command this engine does not recognize, kept verbatim so it
// can pass through unchanged.
type Raw struct {
	Type    string
	Payload json.RawMessage
}

func (c Raw) CommandType() string { return c.Type }

// budgetIdOf returns the BudgetId a command carries, 0 if none.
func budgetIdOf(command Command) int64 {
	switch c := command.(type) {
	case Noop:
		return c.BudgetId
	case SetCurrency:
		return c.BudgetId
	case SetDate:
		return c.BudgetId
	case SetName:
		return c.BudgetId
	case DeleteAccount:
		return c.BudgetId
	case UpdateAccount:
		return c.BudgetId
	case DeleteCategory:
		return c.BudgetId
	case UpdateCategory:
		return c.BudgetId
	case DeleteCategoryGroup:
		return c.BudgetId
	case UpdateCategoryGroup:
		return c.BudgetId
	case DeleteTransaction:
		return c.BudgetId
	case UpdateTransaction:
		return c.BudgetId
	case UpdateMultipleTransactions:
		return c.BudgetId
	}
	return 0
}

// AccountPatch is a partial account: nil fields stay unchanged. A
// non-nil Metadata replaces the account's metadata wholesale.
type AccountPatch struct {
	Name           *string
	InitialBalance *int64
	CurrencyCode   *string
	Metadata       *fin.Metadata
}

func (p *AccountPatch) applyTo(builder *fin.AccountBuilder) {
	if p == nil {
		return
	}
	if p.Name != nil {
		builder.SetName(*p.Name)
	}
	if p.InitialBalance != nil {
		builder.SetInitialBalance(*p.InitialBalance)
	}
	if p.CurrencyCode != nil {
		builder.SetCurrency(*p.CurrencyCode)
	}
	if p.Metadata != nil {
		builder.SetMetadata(*p.Metadata)
	}
}

// accountPatchOf returns a patch carrying every field of account.
func accountPatchOf(account fin.Account) *AccountPatch {
	name := account.Name()
	balance := account.InitialBalance()
	code := account.CurrencyCode()
	metadata := account.Metadata()
	return &AccountPatch{
		Name:           &name,
		InitialBalance: &balance,
		CurrencyCode:   &code,
		Metadata:       &metadata,
	}
}

// accountDiff returns a patch carrying the fields of old whose value
// differs in new, or nil when nothing differs.
func accountDiff(old, new fin.Account) *AccountPatch {
	var p AccountPatch
	changed := false
	if old.Name() != new.Name() {
		v := old.Name()
		p.Name = &v
		changed = true
	}
	if old.InitialBalance() != new.InitialBalance() {
		v := old.InitialBalance()
		p.InitialBalance = &v
		changed = true
	}
	if old.CurrencyCode() != new.CurrencyCode() {
		v := old.CurrencyCode()
		p.CurrencyCode = &v
		changed = true
	}
	if !old.Metadata().Equal(new.Metadata()) {
		v := old.Metadata()
		p.Metadata = &v
		changed = true
	}
	if !changed {
		return nil
	}
	return &p
}

// RulesPatch replaces a category's rules outright: either with a list,
// or with nothing, making the category automatic.
type RulesPatch struct {
	Automatic bool
	List      []fin.CategoryRule
}

// CategoryPatch is a partial category: nil fields stay unchanged.
type CategoryPatch struct {
	Name         *string
	Notes        *string
	CurrencyCode *string
	GroupId      *int64
	Rules        *RulesPatch
	Metadata     *fin.Metadata
}

func (p *CategoryPatch) applyTo(builder *fin.CategoryBuilder) {
	if p == nil {
		return
	}
	if p.Name != nil {
		builder.SetName(*p.Name)
	}
	if p.Notes != nil {
		builder.SetNotes(*p.Notes)
	}
	if p.CurrencyCode != nil {
		builder.SetCurrency(*p.CurrencyCode)
	}
	if p.GroupId != nil {
		builder.SetGroupId(*p.GroupId)
	}
	if p.Rules != nil {
		if p.Rules.Automatic {
			builder.SetAutomatic()
		} else {
			builder.SetRules(p.Rules.List)
		}
	}
	if p.Metadata != nil {
		builder.SetMetadata(*p.Metadata)
	}
}

func categoryPatchOf(category fin.Category) *CategoryPatch {
	name := category.Name()
	notes := category.Notes()
	code := category.CurrencyCode()
	groupId := category.GroupId()
	metadata := category.Metadata()
	return &CategoryPatch{
		Name:         &name,
		Notes:        &notes,
		CurrencyCode: &code,
		GroupId:      &groupId,
		Rules:        rulesPatchOf(category),
		Metadata:     &metadata,
	}
}

func rulesPatchOf(category fin.Category) *RulesPatch {
	if category.IsAutomatic() {
		return &RulesPatch{Automatic: true}
	}
	return &RulesPatch{List: category.Rules()}
}

func categoryDiff(old, new fin.Category) *CategoryPatch {
	var p CategoryPatch
	changed := false
	if old.Name() != new.Name() {
		v := old.Name()
		p.Name = &v
		changed = true
	}
	if old.Notes() != new.Notes() {
		v := old.Notes()
		p.Notes = &v
		changed = true
	}
	if old.CurrencyCode() != new.CurrencyCode() {
		v := old.CurrencyCode()
		p.CurrencyCode = &v
		changed = true
	}
	if old.GroupId() != new.GroupId() {
		v := old.GroupId()
		p.GroupId = &v
		changed = true
	}
	if !rulesEqual(old, new) {
		p.Rules = rulesPatchOf(old)
		changed = true
	}
	if !old.Metadata().Equal(new.Metadata()) {
		v := old.Metadata()
		p.Metadata = &v
		changed = true
	}
	if !changed {
		return nil
	}
	return &p
}

func rulesEqual(a, b fin.Category) bool {
	if a.IsAutomatic() != b.IsAutomatic() {
		return false
	}
	if a.RuleCount() != b.RuleCount() {
		return false
	}
	for i := 0; i < a.RuleCount(); i++ {
		if !a.RuleByIndex(i).Equal(b.RuleByIndex(i)) {
			return false
		}
	}
	return true
}

// CategoryGroupPatch is a partial category group.
type CategoryGroupPatch struct {
	Name *string
}

func (p *CategoryGroupPatch) applyTo(group fin.CategoryGroup) fin.CategoryGroup {
	if p == nil || p.Name == nil {
		return group
	}
	return group.WithName(*p.Name)
}

func groupPatchOf(group fin.CategoryGroup) *CategoryGroupPatch {
	name := group.Name()
	return &CategoryGroupPatch{Name: &name}
}

func groupDiff(old, new fin.CategoryGroup) *CategoryGroupPatch {
	if old.Name() == new.Name() {
		return nil
	}
	return groupPatchOf(old)
}

// OptionalDate is an explicit date value or an explicit absence, as
// opposed to a nil *OptionalDate which means "leave alone".
type OptionalDate struct {
	Valid bool
	Value pdate.Date
}

// TransactionPatch is a partial transaction: nil fields stay unchanged.
// A non-nil Details replaces the details wholesale and must not be
// empty; a non-nil Metadata replaces the metadata wholesale.
type TransactionPatch struct {
	Date      *OptionalDate
	AccountId *int64
	Who       *string
	UserId    *int64
	Details   []fin.TransactionDetail
	Pending   *bool
	Transfer  *bool
	Metadata  *fin.Metadata
}

func (p *TransactionPatch) applyTo(builder *fin.TransactionBuilder) {
	if p == nil {
		return
	}
	if p.Date != nil {
		if p.Date.Valid {
			builder.SetDate(p.Date.Value)
		} else {
			builder.ClearDate()
		}
	}
	if p.AccountId != nil {
		builder.SetAccountId(*p.AccountId)
	}
	if p.Who != nil {
		builder.SetWho(*p.Who)
	}
	if p.UserId != nil {
		builder.SetUserId(*p.UserId)
	}
	if p.Details != nil {
		builder.SetDetails(p.Details)
	}
	if p.Pending != nil {
		builder.SetPending(*p.Pending)
	}
	if p.Transfer != nil {
		builder.SetTransfer(*p.Transfer)
	}
	if p.Metadata != nil {
		builder.SetMetadata(*p.Metadata)
	}
}

func transactionPatchOf(txn fin.Transaction) *TransactionPatch {
	date := OptionalDate{}
	if d, ok := txn.Date(); ok {
		date = OptionalDate{Valid: true, Value: d}
	}
	accountId := txn.AccountId()
	who := txn.Who()
	userId := txn.UserId()
	pending := txn.Pending()
	transfer := txn.IsTransfer()
	metadata := txn.Metadata()
	return &TransactionPatch{
		Date:      &date,
		AccountId: &accountId,
		Who:       &who,
		UserId:    &userId,
		Details:   txn.Details(),
		Pending:   &pending,
		Transfer:  &transfer,
		Metadata:  &metadata,
	}
}

func transactionDiff(old, new fin.Transaction) *TransactionPatch {
	var p TransactionPatch
	changed := false
	if !datesEqual(old, new) {
		date := OptionalDate{}
		if d, ok := old.Date(); ok {
			date = OptionalDate{Valid: true, Value: d}
		}
		p.Date = &date
		changed = true
	}
	if old.AccountId() != new.AccountId() {
		v := old.AccountId()
		p.AccountId = &v
		changed = true
	}
	if old.Who() != new.Who() {
		v := old.Who()
		p.Who = &v
		changed = true
	}
	if old.UserId() != new.UserId() {
		v := old.UserId()
		p.UserId = &v
		changed = true
	}
	if !detailsEqual(old, new) {
		p.Details = old.Details()
		changed = true
	}
	if old.Pending() != new.Pending() {
		v := old.Pending()
		p.Pending = &v
		changed = true
	}
	if old.IsTransfer() != new.IsTransfer() {
		v := old.IsTransfer()
		p.Transfer = &v
		changed = true
	}
	if !old.Metadata().Equal(new.Metadata()) {
		v := old.Metadata()
		p.Metadata = &v
		changed = true
	}
	if !changed {
		return nil
	}
	return &p
}

func datesEqual(a, b fin.Transaction) bool {
	ad, aok := a.Date()
	bd, bok := b.Date()
	return aok == bok && ad == bd
}

func detailsEqual(a, b fin.Transaction) bool {
	if a.DetailCount() != b.DetailCount() {
		return false
	}
	for i := 0; i < a.DetailCount(); i++ {
		if !a.DetailByIndex(i).Equal(b.DetailByIndex(i)) {
			return false
		}
	}
	return true
}
