package commands

import (
	"strings"

	"github.com/keep94/budget/fin"
)

// Invert returns the command that undoes command when applied to the
// state Reduce(state, command) produces:
//
//	Reduce(Reduce(state, command), Invert(state, command))
//
// is structurally equal to state, including list positions and
// orphaned references. The returned command carries state's budget id.
func Invert(state fin.Budget, command Command) Command {
	if !strings.HasPrefix(command.CommandType(), TypePrefix) {
		return Noop{BudgetId: state.Id()}
	}
	if id := budgetIdOf(command); id != 0 && id != state.Id() {
		return Noop{BudgetId: state.Id()}
	}
	switch c := command.(type) {
	case Noop:
		return Noop{BudgetId: state.Id()}
	case SetCurrency:
		return SetCurrency{
			BudgetId: state.Id(), CurrencyCode: state.CurrencyCode()}
	case SetDate:
		inverse := SetDate{BudgetId: state.Id()}
		if c.StartDate != nil {
			prior := state.StartDate()
			inverse.StartDate = &prior
		}
		if c.EndDate != nil {
			prior := state.EndDate()
			inverse.EndDate = &prior
		}
		return inverse
	case SetName:
		return SetName{BudgetId: state.Id(), Name: state.Name()}
	case DeleteAccount:
		return invertDeleteAccount(state, c)
	case UpdateAccount:
		return invertUpdateAccount(state, c)
	case DeleteCategory:
		return invertDeleteCategory(state, c)
	case UpdateCategory:
		return invertUpdateCategory(state, c)
	case DeleteCategoryGroup:
		return invertDeleteCategoryGroup(state, c)
	case UpdateCategoryGroup:
		return invertUpdateCategoryGroup(state, c)
	case DeleteTransaction:
		return invertDeleteTransaction(state, c)
	case UpdateTransaction:
		return invertUpdateTransaction(state, c)
	case UpdateMultipleTransactions:
		return invertMultiple(state, c)
	}
	return Noop{BudgetId: state.Id()}
}

func invertDeleteAccount(state fin.Budget, c DeleteAccount) Command {
	account, ok := state.AccountById(c.Id)
	if !ok {
		return Noop{BudgetId: state.Id()}
	}
	index, _ := state.AccountIndex(c.Id)
	var linked []int64
	for _, txn := range state.Transactions() {
		if txn.AccountId() == c.Id {
			linked = append(linked, txn.Id())
		}
	}
	return UpdateAccount{
		BudgetId:             state.Id(),
		Id:                   c.Id,
		Data:                 accountPatchOf(account),
		Index:                &index,
		LinkNullTransactions: linked,
	}
}

func invertUpdateAccount(state fin.Budget, c UpdateAccount) Command {
	old, existed := state.AccountById(c.Id)
	if !existed {
		return DeleteAccount{BudgetId: state.Id(), Id: c.Id}
	}
	after := Reduce(state, c)
	updated, _ := after.AccountById(c.Id)
	inverse := UpdateAccount{
		BudgetId: state.Id(),
		Id:       c.Id,
		Data:     accountDiff(old, updated),
	}
	if c.Index != nil {
		prior, _ := state.AccountIndex(c.Id)
		if prior != *c.Index {
			inverse.Index = &prior
		}
	}
	return inverse
}

func invertDeleteCategory(state fin.Budget, c DeleteCategory) Command {
	category, ok := state.CategoryById(c.Id)
	if !ok {
		return Noop{BudgetId: state.Id()}
	}
	index, _ := state.CategoryIndexInGroup(c.Id)
	var linked []DetailRef
	for _, txn := range state.Transactions() {
		for i := 0; i < txn.DetailCount(); i++ {
			if txn.DetailByIndex(i).CategoryId() == c.Id {
				linked = append(
					linked,
					DetailRef{TransactionId: txn.Id(), DetailIndex: i})
			}
		}
	}
	return UpdateCategory{
		BudgetId:               state.Id(),
		Id:                     c.Id,
		Data:                   categoryPatchOf(category),
		Index:                  &index,
		LinkTransactionDetails: linked,
	}
}

func invertUpdateCategory(state fin.Budget, c UpdateCategory) Command {
	old, existed := state.CategoryById(c.Id)
	if !existed {
		return DeleteCategory{BudgetId: state.Id(), Id: c.Id}
	}
	after := Reduce(state, c)
	updated, _ := after.CategoryById(c.Id)
	inverse := UpdateCategory{
		BudgetId: state.Id(),
		Id:       c.Id,
		Data:     categoryDiff(old, updated),
	}
	if c.Index != nil {
		prior, _ := state.CategoryIndexInGroup(c.Id)
		if prior != *c.Index {
			inverse.Index = &prior
		}
	}
	return inverse
}

func invertDeleteCategoryGroup(
	state fin.Budget, c DeleteCategoryGroup) Command {
	group, ok := state.CategoryGroupById(c.Id)
	if !ok {
		return Noop{BudgetId: state.Id()}
	}
	return UpdateCategoryGroup{
		BudgetId: state.Id(),
		Id:       c.Id,
		Data:     groupPatchOf(group),
	}
}

func invertUpdateCategoryGroup(
	state fin.Budget, c UpdateCategoryGroup) Command {
	old, existed := state.CategoryGroupById(c.Id)
	if !existed {
		return DeleteCategoryGroup{BudgetId: state.Id(), Id: c.Id}
	}
	after := Reduce(state, c)
	updated, _ := after.CategoryGroupById(c.Id)
	inverse := UpdateCategoryGroup{
		BudgetId: state.Id(),
		Id:       c.Id,
		Data:     groupDiff(old, updated),
	}
	if c.Index != nil {
		prior, _ := state.CategoryGroupIndex(c.Id)
		if prior != *c.Index {
			inverse.Index = &prior
		}
	}
	return inverse
}

func invertDeleteTransaction(
	state fin.Budget, c DeleteTransaction) Command {
	txn, ok := state.TransactionById(c.Id)
	if !ok {
		return Noop{BudgetId: state.Id()}
	}
	return UpdateTransaction{
		BudgetId: state.Id(),
		Id:       c.Id,
		Data:     transactionPatchOf(txn),
	}
}

func invertUpdateTransaction(
	state fin.Budget, c UpdateTransaction) Command {
	old, existed := state.TransactionById(c.Id)
	if !existed {
		return DeleteTransaction{BudgetId: state.Id(), Id: c.Id}
	}
	after := Reduce(state, c)
	updated, _ := after.TransactionById(c.Id)
	return UpdateTransaction{
		BudgetId: state.Id(),
		Id:       c.Id,
		Data:     transactionDiff(old, updated),
	}
}

// invertMultiple walks the sub-commands forward, inverting each against
// the state it actually sees, then plays the inverses back in reverse.
func invertMultiple(
	state fin.Budget, c UpdateMultipleTransactions) Command {
	inverses := make([]Command, 0, len(c.SubActions))
	running := state
	for _, sub := range c.SubActions {
		inverses = append(inverses, Invert(running, sub))
		running = Reduce(running, sub)
	}
	for i, j := 0, len(inverses)-1; i < j; i, j = i+1, j-1 {
		inverses[i], inverses[j] = inverses[j], inverses[i]
	}
	return UpdateMultipleTransactions{
		BudgetId:   state.Id(),
		SubActions: inverses,
	}
}
