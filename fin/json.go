package fin

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/keep94/budget/pdate"
)

// The serialized form version. The major number moves on incompatible
// changes; the minor number on additive ones.
const (
	kMajorVersion = 1
	kMinorVersion = 0
)

var (
	UnsupportedVersion = errors.New("fin: Unsupported serialized version.")
)

// catchViolation converts an InvariantViolation panic into an error so
// that deserializing bad input reports instead of crashing.
func catchViolation(err *error) {
	if r := recover(); r != nil {
		if v, ok := r.(InvariantViolation); ok {
			*err = v
			return
		}
		panic(r)
	}
}

type versionJSON struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

type accountJSON struct {
	Id             int64    `json:"id"`
	Name           string   `json:"name"`
	InitialBalance int64    `json:"initialBalance"`
	CurrencyCode   string   `json:"currencyCode"`
	Metadata       Metadata `json:"metadata"`
}

type groupJSON struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type ruleJSON struct {
	Amount    int64   `json:"amount"`
	StartDate *int    `json:"startDate"`
	EndDate   *int    `json:"endDate"`
	RepeatN   int     `json:"repeatN"`
	Period    *string `json:"period"`
}

type categoryJSON struct {
	Id           int64      `json:"id"`
	Name         string     `json:"name"`
	Notes        string     `json:"notes"`
	CurrencyCode string     `json:"currencyCode"`
	GroupId      int64      `json:"groupId"`
	Rules        []ruleJSON `json:"rules"`
	Metadata     Metadata   `json:"metadata"`
}

type detailJSON struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CategoryId  int64  `json:"categoryId"`
}

type transactionJSON struct {
	Id         int64        `json:"id"`
	Date       *int         `json:"date"`
	AccountId  int64        `json:"accountId"`
	Who        string       `json:"who"`
	UserId     int64        `json:"userId"`
	Detail     []detailJSON `json:"detail"`
	Pending    bool         `json:"pending"`
	IsTransfer bool         `json:"isTransfer"`
	Metadata   Metadata     `json:"metadata"`
}

type budgetJSON struct {
	Version        versionJSON       `json:"version"`
	Id             int64             `json:"id"`
	Name           string            `json:"name"`
	StartDate      int               `json:"startDate"`
	EndDate        int               `json:"endDate"`
	CurrencyCode   string            `json:"currencyCode"`
	Accounts       []accountJSON     `json:"accounts"`
	CategoryGroups []groupJSON       `json:"categoryGroups"`
	Categories     []categoryJSON    `json:"categories"`
	Transactions   []transactionJSON `json:"transactions"`
}

func dateValue(d *pdate.Date) *int {
	if d == nil {
		return nil
	}
	v := d.Value()
	return &v
}

func valueDate(v *int) *pdate.Date {
	if v == nil {
		return nil
	}
	d := pdate.FromValue(*v)
	return &d
}

func (a Account) toJSON() accountJSON {
	return accountJSON{
		Id:             a.id,
		Name:           a.name,
		InitialBalance: a.initialBalance,
		CurrencyCode:   a.currencyCode,
		Metadata:       a.metadata,
	}
}

func accountFromJSON(j accountJSON) Account {
	var builder AccountBuilder
	return builder.
		SetId(j.Id).
		SetName(j.Name).
		SetInitialBalance(j.InitialBalance).
		SetCurrency(j.CurrencyCode).
		SetMetadata(j.Metadata).
		Build()
}

func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.toJSON())
}

func (a *Account) UnmarshalJSON(b []byte) (err error) {
	defer catchViolation(&err)
	var j accountJSON
	if err = json.Unmarshal(b, &j); err != nil {
		return
	}
	*a = accountFromJSON(j)
	return
}

func (g CategoryGroup) toJSON() groupJSON {
	return groupJSON{Id: g.id, Name: g.name}
}

func (g CategoryGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.toJSON())
}

func (g *CategoryGroup) UnmarshalJSON(b []byte) (err error) {
	defer catchViolation(&err)
	var j groupJSON
	if err = json.Unmarshal(b, &j); err != nil {
		return
	}
	*g = NewCategoryGroup(j.Id, j.Name)
	return
}

func (r CategoryRule) toJSON() ruleJSON {
	var period *string
	if r.period != OneTime {
		s := r.period.String()
		period = &s
	}
	return ruleJSON{
		Amount:    r.amount,
		StartDate: dateValue(r.start),
		EndDate:   dateValue(r.end),
		RepeatN:   r.everyN,
		Period:    period,
	}
}

func ruleFromJSON(j ruleJSON) CategoryRule {
	period := OneTime
	if j.Period != nil {
		switch *j.Period {
		case Day.String():
			period = Day
		case Week.String():
			period = Week
		case Month.String():
			period = Month
		case Year.String():
			period = Year
		default:
			violation("rule has no period %q", *j.Period)
		}
	}
	rule := CategoryRule{
		amount: j.Amount,
		start:  valueDate(j.StartDate),
		end:    valueDate(j.EndDate),
		everyN: j.RepeatN,
		period: period,
	}
	rule.checkInvariants()
	return rule
}

func (r CategoryRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toJSON())
}

func (r *CategoryRule) UnmarshalJSON(b []byte) (err error) {
	defer catchViolation(&err)
	var j ruleJSON
	if err = json.Unmarshal(b, &j); err != nil {
		return
	}
	*r = ruleFromJSON(j)
	return
}

func (c Category) toJSON() categoryJSON {
	j := categoryJSON{
		Id:           c.id,
		Name:         c.name,
		Notes:        c.notes,
		CurrencyCode: c.currencyCode,
		GroupId:      c.groupId,
		Metadata:     c.metadata,
	}
	if c.ruled {
		j.Rules = make([]ruleJSON, len(c.rules))
		for i := range c.rules {
			j.Rules[i] = c.rules[i].toJSON()
		}
	}
	return j
}

func categoryFromJSON(j categoryJSON) Category {
	var builder CategoryBuilder
	builder.
		SetId(j.Id).
		SetName(j.Name).
		SetNotes(j.Notes).
		SetCurrency(j.CurrencyCode).
		SetGroupId(j.GroupId).
		SetMetadata(j.Metadata)
	if j.Rules != nil {
		rules := make([]CategoryRule, len(j.Rules))
		for i := range j.Rules {
			rules[i] = ruleFromJSON(j.Rules[i])
		}
		builder.SetRules(rules)
	}
	return builder.Build()
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toJSON())
}

func (c *Category) UnmarshalJSON(b []byte) (err error) {
	defer catchViolation(&err)
	var j categoryJSON
	if err = json.Unmarshal(b, &j); err != nil {
		return
	}
	*c = categoryFromJSON(j)
	return
}

func (d TransactionDetail) MarshalJSON() ([]byte, error) {
	return json.Marshal(detailJSON{
		Amount:      d.amount,
		Description: d.description,
		CategoryId:  d.categoryId,
	})
}

func (d *TransactionDetail) UnmarshalJSON(b []byte) (err error) {
	defer catchViolation(&err)
	var j detailJSON
	if err = json.Unmarshal(b, &j); err != nil {
		return
	}
	*d = NewTransactionDetail(j.Amount, j.Description, j.CategoryId)
	return
}

func (t Transaction) toJSON() transactionJSON {
	details := make([]detailJSON, len(t.details))
	for i := range t.details {
		details[i] = detailJSON{
			Amount:      t.details[i].amount,
			Description: t.details[i].description,
			CategoryId:  t.details[i].categoryId,
		}
	}
	return transactionJSON{
		Id:         t.id,
		Date:       dateValue(t.date),
		AccountId:  t.accountId,
		Who:        t.who,
		UserId:     t.userId,
		Detail:     details,
		Pending:    t.pending,
		IsTransfer: t.transfer,
		Metadata:   t.metadata,
	}
}

func transactionFromJSON(j transactionJSON) Transaction {
	var builder TransactionBuilder
	builder.
		SetId(j.Id).
		SetAccountId(j.AccountId).
		SetWho(j.Who).
		SetUserId(j.UserId).
		SetPending(j.Pending).
		SetTransfer(j.IsTransfer).
		SetMetadata(j.Metadata)
	if j.Date != nil {
		builder.SetDate(pdate.FromValue(*j.Date))
	}
	for _, d := range j.Detail {
		builder.AddDetail(
			NewTransactionDetail(d.Amount, d.Description, d.CategoryId))
	}
	return builder.Build()
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON())
}

func (t *Transaction) UnmarshalJSON(b []byte) (err error) {
	defer catchViolation(&err)
	var j transactionJSON
	if err = json.Unmarshal(b, &j); err != nil {
		return
	}
	*t = transactionFromJSON(j)
	return
}

func (b Budget) MarshalJSON() ([]byte, error) {
	data := b.data()
	j := budgetJSON{
		Version:      versionJSON{Major: kMajorVersion, Minor: kMinorVersion},
		Id:           data.id,
		Name:         data.name,
		StartDate:    data.startDate.Value(),
		EndDate:      data.endDate.Value(),
		CurrencyCode: data.currencyCode,
	}
	j.Accounts = make([]accountJSON, len(data.accounts))
	for i := range data.accounts {
		j.Accounts[i] = data.accounts[i].toJSON()
	}
	j.CategoryGroups = make([]groupJSON, len(data.groups))
	for i := range data.groups {
		j.CategoryGroups[i] = data.groups[i].toJSON()
	}
	j.Categories = make([]categoryJSON, len(data.categories))
	for i := range data.categories {
		j.Categories[i] = data.categories[i].toJSON()
	}
	j.Transactions = make([]transactionJSON, len(data.transactions))
	for i := range data.transactions {
		j.Transactions[i] = data.transactions[i].toJSON()
	}
	return json.Marshal(j)
}

func (b *Budget) UnmarshalJSON(buf []byte) (err error) {
	defer catchViolation(&err)
	var j budgetJSON
	if err = json.Unmarshal(buf, &j); err != nil {
		return
	}
	if j.Version.Major > kMajorVersion {
		return fmt.Errorf(
			"%w Found %d.%d.",
			UnsupportedVersion, j.Version.Major, j.Version.Minor)
	}
	var builder BudgetBuilder
	builder.
		SetId(j.Id).
		SetName(j.Name).
		SetCurrency(j.CurrencyCode).
		SetStartDate(pdate.FromValue(j.StartDate)).
		SetEndDate(pdate.FromValue(j.EndDate))
	for _, a := range j.Accounts {
		builder.AddAccount(accountFromJSON(a))
	}
	for _, g := range j.CategoryGroups {
		builder.AddCategoryGroup(NewCategoryGroup(g.Id, g.Name))
	}
	for _, c := range j.Categories {
		builder.AddCategory(categoryFromJSON(c))
	}
	for _, t := range j.Transactions {
		builder.AddTransaction(transactionFromJSON(t))
	}
	*b = builder.Build()
	return
}
