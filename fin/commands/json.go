package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/pdate"
)

var (
	MalformedCommand = errors.New("commands: Malformed command.")
)

// commandJSON is the wire form shared by every recognized command:
// a type tag plus the union of the per-command fields. Absent keys
// stay absent so that "key is present" keeps its meaning.
type commandJSON struct {
	Type                   string            `json:"type"`
	BudgetId               int64             `json:"budgetId,omitempty"`
	Id                     int64             `json:"id,omitempty"`
	Name                   *string           `json:"name,omitempty"`
	CurrencyCode           *string           `json:"currencyCode,omitempty"`
	StartDate              *int              `json:"startDate,omitempty"`
	EndDate                *int              `json:"endDate,omitempty"`
	Data                   json.RawMessage   `json:"data,omitempty"`
	Index                  *int              `json:"index,omitempty"`
	LinkNullTransactions   []int64           `json:"linkNullTransactions,omitempty"`
	LinkTransactionDetails []detailRefJSON   `json:"linkTransactionDetails,omitempty"`
	SubActions             []json.RawMessage `json:"subActions,omitempty"`
}

type detailRefJSON struct {
	TransactionId int64 `json:"transactionId"`
	DetailIndex   int   `json:"detailIndex"`
}

type accountPatchJSON struct {
	Name           *string       `json:"name,omitempty"`
	InitialBalance *int64        `json:"initialBalance,omitempty"`
	CurrencyCode   *string       `json:"currencyCode,omitempty"`
	Metadata       *fin.Metadata `json:"metadata,omitempty"`
}

type categoryPatchJSON struct {
	Name         *string `json:"name,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CurrencyCode *string `json:"currencyCode,omitempty"`
	GroupId      *int64  `json:"groupId,omitempty"`
	// rules is tri-state: absent, null for automatic, or a list
	Rules    json.RawMessage `json:"rules,omitempty"`
	Metadata *fin.Metadata   `json:"metadata,omitempty"`
}

type groupPatchJSON struct {
	Name *string `json:"name,omitempty"`
}

type transactionPatchJSON struct {
	// date is tri-state: absent, null for undated, or a day value
	Date      json.RawMessage         `json:"date,omitempty"`
	AccountId *int64                  `json:"accountId,omitempty"`
	Who       *string                 `json:"who,omitempty"`
	UserId    *int64                  `json:"userId,omitempty"`
	Detail    []fin.TransactionDetail `json:"detail,omitempty"`
	Pending   *bool                   `json:"pending,omitempty"`
	Transfer  *bool                   `json:"isTransfer,omitempty"`
	Metadata  *fin.Metadata           `json:"metadata,omitempty"`
}

var kNullRaw = json.RawMessage("null")

func (p *AccountPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountPatchJSON{
		Name:           p.Name,
		InitialBalance: p.InitialBalance,
		CurrencyCode:   p.CurrencyCode,
		Metadata:       p.Metadata,
	})
}

func (p *AccountPatch) UnmarshalJSON(b []byte) error {
	var j accountPatchJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*p = AccountPatch{
		Name:           j.Name,
		InitialBalance: j.InitialBalance,
		CurrencyCode:   j.CurrencyCode,
		Metadata:       j.Metadata,
	}
	return nil
}

func (p *CategoryPatch) MarshalJSON() ([]byte, error) {
	j := categoryPatchJSON{
		Name:         p.Name,
		Notes:        p.Notes,
		CurrencyCode: p.CurrencyCode,
		GroupId:      p.GroupId,
		Metadata:     p.Metadata,
	}
	if p.Rules != nil {
		if p.Rules.Automatic {
			j.Rules = kNullRaw
		} else {
			rules, err := json.Marshal(p.Rules.List)
			if err != nil {
				return nil, err
			}
			j.Rules = rules
		}
	}
	return json.Marshal(j)
}

func (p *CategoryPatch) UnmarshalJSON(b []byte) error {
	var j categoryPatchJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*p = CategoryPatch{
		Name:         j.Name,
		Notes:        j.Notes,
		CurrencyCode: j.CurrencyCode,
		GroupId:      j.GroupId,
		Metadata:     j.Metadata,
	}
	if len(j.Rules) > 0 {
		if string(j.Rules) == "null" {
			p.Rules = &RulesPatch{Automatic: true}
		} else {
			var list []fin.CategoryRule
			if err := json.Unmarshal(j.Rules, &list); err != nil {
				return err
			}
			if list == nil {
				list = []fin.CategoryRule{}
			}
			p.Rules = &RulesPatch{List: list}
		}
	}
	return nil
}

func (p *CategoryGroupPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(groupPatchJSON{Name: p.Name})
}

func (p *CategoryGroupPatch) UnmarshalJSON(b []byte) error {
	var j groupPatchJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*p = CategoryGroupPatch{Name: j.Name}
	return nil
}

func (p *TransactionPatch) MarshalJSON() ([]byte, error) {
	j := transactionPatchJSON{
		AccountId: p.AccountId,
		Who:       p.Who,
		UserId:    p.UserId,
		Detail:    p.Details,
		Pending:   p.Pending,
		Transfer:  p.Transfer,
		Metadata:  p.Metadata,
	}
	if p.Date != nil {
		if p.Date.Valid {
			j.Date = json.RawMessage(
				fmt.Sprintf("%d", p.Date.Value.Value()))
		} else {
			j.Date = kNullRaw
		}
	}
	return json.Marshal(j)
}

func (p *TransactionPatch) UnmarshalJSON(b []byte) error {
	var j transactionPatchJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*p = TransactionPatch{
		AccountId: j.AccountId,
		Who:       j.Who,
		UserId:    j.UserId,
		Details:   j.Detail,
		Pending:   j.Pending,
		Transfer:  j.Transfer,
		Metadata:  j.Metadata,
	}
	if len(j.Date) > 0 {
		if string(j.Date) == "null" {
			p.Date = &OptionalDate{}
		} else {
			var v int
			if err := json.Unmarshal(j.Date, &v); err != nil {
				return err
			}
			p.Date = &OptionalDate{Valid: true, Value: pdate.FromValue(v)}
		}
	}
	return nil
}

func dayValue(d *pdate.Date) *int {
	if d == nil {
		return nil
	}
	v := d.Value()
	return &v
}

func (c Noop) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{Type: NoopType, BudgetId: c.BudgetId})
}

func (c SetCurrency) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{
		Type:         SetCurrencyType,
		BudgetId:     c.BudgetId,
		CurrencyCode: &c.CurrencyCode,
	})
}

func (c SetDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{
		Type:      SetDateType,
		BudgetId:  c.BudgetId,
		StartDate: dayValue(c.StartDate),
		EndDate:   dayValue(c.EndDate),
	})
}

func (c SetName) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{
		Type:     SetNameType,
		BudgetId: c.BudgetId,
		Name:     &c.Name,
	})
}

func (c DeleteAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{
		Type: DeleteAccountType, BudgetId: c.BudgetId, Id: c.Id})
}

func (c UpdateAccount) MarshalJSON() ([]byte, error) {
	j := commandJSON{
		Type:                 UpdateAccountType,
		BudgetId:             c.BudgetId,
		Id:                   c.Id,
		Index:                c.Index,
		LinkNullTransactions: c.LinkNullTransactions,
	}
	if err := marshalData(&j, c.Data, c.Data != nil); err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func (c DeleteCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{
		Type: DeleteCategoryType, BudgetId: c.BudgetId, Id: c.Id})
}

func (c UpdateCategory) MarshalJSON() ([]byte, error) {
	j := commandJSON{
		Type:     UpdateCategoryType,
		BudgetId: c.BudgetId,
		Id:       c.Id,
		Index:    c.Index,
	}
	for _, ref := range c.LinkTransactionDetails {
		j.LinkTransactionDetails = append(
			j.LinkTransactionDetails,
			detailRefJSON{
				TransactionId: ref.TransactionId,
				DetailIndex:   ref.DetailIndex,
			})
	}
	if err := marshalData(&j, c.Data, c.Data != nil); err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func (c DeleteCategoryGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{
		Type: DeleteCategoryGroupType, BudgetId: c.BudgetId, Id: c.Id})
}

func (c UpdateCategoryGroup) MarshalJSON() ([]byte, error) {
	j := commandJSON{
		Type:     UpdateCategoryGroupType,
		BudgetId: c.BudgetId,
		Id:       c.Id,
		Index:    c.Index,
	}
	if err := marshalData(&j, c.Data, c.Data != nil); err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func (c DeleteTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(commandJSON{
		Type: DeleteTransactionType, BudgetId: c.BudgetId, Id: c.Id})
}

func (c UpdateTransaction) MarshalJSON() ([]byte, error) {
	j := commandJSON{
		Type:     UpdateTransactionType,
		BudgetId: c.BudgetId,
		Id:       c.Id,
	}
	if err := marshalData(&j, c.Data, c.Data != nil); err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func (c UpdateMultipleTransactions) MarshalJSON() ([]byte, error) {
	j := commandJSON{
		Type:     UpdateMultipleTransactionsType,
		BudgetId: c.BudgetId,
	}
	for _, sub := range c.SubActions {
		buf, err := json.Marshal(sub)
		if err != nil {
			return nil, err
		}
		j.SubActions = append(j.SubActions, buf)
	}
	return json.Marshal(j)
}

func (c Raw) MarshalJSON() ([]byte, error) {
	return c.Payload, nil
}

func marshalData(j *commandJSON, data json.Marshaler, present bool) error {
	if !present {
		return nil
	}
	buf, err := data.MarshalJSON()
	if err != nil {
		return err
	}
	j.Data = buf
	return nil
}

// FromJSON decodes one command from its wire form. Commands whose type
// tag is not recognized come back as Raw so they can pass through
// unchanged.
func FromJSON(buf []byte) (Command, error) {
	var j commandJSON
	if err := json.Unmarshal(buf, &j); err != nil {
		return nil, err
	}
	if j.Type == "" {
		return nil, MalformedCommand
	}
	switch j.Type {
	case NoopType:
		return Noop{BudgetId: j.BudgetId}, nil
	case SetCurrencyType:
		if j.CurrencyCode == nil {
			return nil, MalformedCommand
		}
		return SetCurrency{
			BudgetId: j.BudgetId, CurrencyCode: *j.CurrencyCode}, nil
	case SetDateType:
		c := SetDate{BudgetId: j.BudgetId}
		if j.StartDate != nil {
			d := pdate.FromValue(*j.StartDate)
			c.StartDate = &d
		}
		if j.EndDate != nil {
			d := pdate.FromValue(*j.EndDate)
			c.EndDate = &d
		}
		return c, nil
	case SetNameType:
		if j.Name == nil {
			return nil, MalformedCommand
		}
		return SetName{BudgetId: j.BudgetId, Name: *j.Name}, nil
	case DeleteAccountType:
		return DeleteAccount{BudgetId: j.BudgetId, Id: j.Id}, nil
	case UpdateAccountType:
		c := UpdateAccount{
			BudgetId:             j.BudgetId,
			Id:                   j.Id,
			Index:                j.Index,
			LinkNullTransactions: j.LinkNullTransactions,
		}
		if len(j.Data) > 0 {
			c.Data = &AccountPatch{}
			if err := json.Unmarshal(j.Data, c.Data); err != nil {
				return nil, err
			}
		}
		return c, nil
	case DeleteCategoryType:
		return DeleteCategory{BudgetId: j.BudgetId, Id: j.Id}, nil
	case UpdateCategoryType:
		c := UpdateCategory{
			BudgetId: j.BudgetId,
			Id:       j.Id,
			Index:    j.Index,
		}
		for _, ref := range j.LinkTransactionDetails {
			c.LinkTransactionDetails = append(
				c.LinkTransactionDetails,
				DetailRef{
					TransactionId: ref.TransactionId,
					DetailIndex:   ref.DetailIndex,
				})
		}
		if len(j.Data) > 0 {
			c.Data = &CategoryPatch{}
			if err := json.Unmarshal(j.Data, c.Data); err != nil {
				return nil, err
			}
		}
		return c, nil
	case DeleteCategoryGroupType:
		return DeleteCategoryGroup{BudgetId: j.BudgetId, Id: j.Id}, nil
	case UpdateCategoryGroupType:
		c := UpdateCategoryGroup{
			BudgetId: j.BudgetId,
			Id:       j.Id,
			Index:    j.Index,
		}
		if len(j.Data) > 0 {
			c.Data = &CategoryGroupPatch{}
			if err := json.Unmarshal(j.Data, c.Data); err != nil {
				return nil, err
			}
		}
		return c, nil
	case DeleteTransactionType:
		return DeleteTransaction{BudgetId: j.BudgetId, Id: j.Id}, nil
	case UpdateTransactionType:
		c := UpdateTransaction{BudgetId: j.BudgetId, Id: j.Id}
		if len(j.Data) > 0 {
			c.Data = &TransactionPatch{}
			if err := json.Unmarshal(j.Data, c.Data); err != nil {
				return nil, err
			}
		}
		return c, nil
	case UpdateMultipleTransactionsType:
		c := UpdateMultipleTransactions{BudgetId: j.BudgetId}
		for _, raw := range j.SubActions {
			sub, err := FromJSON(raw)
			if err != nil {
				return nil, err
			}
			c.SubActions = append(c.SubActions, sub)
		}
		return c, nil
	}
	payload := make(json.RawMessage, len(buf))
	copy(payload, buf)
	return Raw{Type: j.Type, Payload: payload}, nil
}
