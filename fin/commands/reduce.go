package commands

import (
	"strings"

	"github.com/keep94/budget/fin"
)

// Reduce applies command to state and returns the new state. Reduce is
// pure: state itself is never modified. Commands with a foreign type
// prefix, an unrecognized type, or a BudgetId naming another budget
// leave the state unchanged. Reduce does not recover from
// InvariantViolation panics; callers catch them at the boundary.
func Reduce(state fin.Budget, command Command) fin.Budget {
	if !strings.HasPrefix(command.CommandType(), TypePrefix) {
		return state
	}
	if id := budgetIdOf(command); id != 0 && id != state.Id() {
		return state
	}
	switch c := command.(type) {
	case Noop:
		return state
	case SetCurrency:
		return state.WithCurrency(c.CurrencyCode)
	case SetDate:
		return reduceSetDate(state, c)
	case SetName:
		return state.WithName(c.Name)
	case DeleteAccount:
		return state.DeleteAccount(c.Id)
	case UpdateAccount:
		return reduceUpdateAccount(state, c)
	case DeleteCategory:
		return state.DeleteCategory(c.Id)
	case UpdateCategory:
		return reduceUpdateCategory(state, c)
	case DeleteCategoryGroup:
		return state.DeleteCategoryGroup(c.Id)
	case UpdateCategoryGroup:
		return reduceUpdateCategoryGroup(state, c)
	case DeleteTransaction:
		return state.DeleteTransaction(c.Id)
	case UpdateTransaction:
		return reduceUpdateTransaction(state, c)
	case UpdateMultipleTransactions:
		return reduceMultiple(state, c)
	}
	return state
}

func reduceSetDate(state fin.Budget, c SetDate) fin.Budget {
	// both ends move in one batch so that crossing the old period
	// does not trip the invariant check halfway
	var builder fin.BudgetBuilder
	builder.Set(state)
	if c.StartDate != nil {
		builder.SetStartDate(*c.StartDate)
	}
	if c.EndDate != nil {
		builder.SetEndDate(*c.EndDate)
	}
	return builder.Build()
}

func reduceUpdateAccount(state fin.Budget, c UpdateAccount) fin.Budget {
	var builder fin.AccountBuilder
	if account, ok := state.AccountById(c.Id); ok {
		if c.Data != nil {
			builder.Set(account)
			c.Data.applyTo(&builder)
			state = state.UpdateAccount(builder.Build())
		}
	} else {
		builder.SetId(c.Id)
		c.Data.applyTo(&builder)
		state = state.UpdateAccount(builder.Build())
		for _, txnId := range c.LinkNullTransactions {
			txn, ok := state.TransactionById(txnId)
			if !ok || txn.AccountId() != 0 {
				continue
			}
			state = state.UpdateTransaction(txn.WithAccountId(c.Id))
		}
	}
	if c.Index != nil {
		state = state.PositionAccount(c.Id, *c.Index)
	}
	return state
}

func reduceUpdateCategory(state fin.Budget, c UpdateCategory) fin.Budget {
	var builder fin.CategoryBuilder
	if category, ok := state.CategoryById(c.Id); ok {
		if c.Data != nil {
			builder.Set(category)
			c.Data.applyTo(&builder)
			state = state.UpdateCategory(builder.Build())
		}
	} else {
		builder.SetId(c.Id)
		c.Data.applyTo(&builder)
		state = state.UpdateCategory(builder.Build())
		for _, ref := range c.LinkTransactionDetails {
			txn, ok := state.TransactionById(ref.TransactionId)
			if !ok || ref.DetailIndex < 0 ||
				ref.DetailIndex >= txn.DetailCount() ||
				txn.DetailByIndex(ref.DetailIndex).CategoryId() != 0 {
				continue
			}
			state = state.UpdateTransaction(
				txn.WithDetailCategoryId(ref.DetailIndex, c.Id))
		}
	}
	if c.Index != nil {
		state = state.PositionCategory(c.Id, *c.Index)
	}
	return state
}

func reduceUpdateCategoryGroup(
	state fin.Budget, c UpdateCategoryGroup) fin.Budget {
	if group, ok := state.CategoryGroupById(c.Id); ok {
		if c.Data != nil {
			state = state.UpdateCategoryGroup(c.Data.applyTo(group))
		}
	} else {
		state = state.UpdateCategoryGroup(
			c.Data.applyTo(fin.NewCategoryGroup(c.Id, "")))
	}
	if c.Index != nil {
		state = state.PositionCategoryGroup(c.Id, *c.Index)
	}
	return state
}

func reduceUpdateTransaction(
	state fin.Budget, c UpdateTransaction) fin.Budget {
	var builder fin.TransactionBuilder
	if txn, ok := state.TransactionById(c.Id); ok {
		if c.Data == nil {
			return state
		}
		builder.Set(txn)
	} else {
		builder.SetId(c.Id)
	}
	c.Data.applyTo(&builder)
	return state.UpdateTransaction(builder.Build())
}

func reduceMultiple(
	state fin.Budget, c UpdateMultipleTransactions) fin.Budget {
	for _, sub := range c.SubActions {
		switch sub.(type) {
		case UpdateTransaction, DeleteTransaction:
		default:
			panic(fin.InvariantViolation{
				Reason: "compound command can only hold transaction commands"})
		}
		if id := budgetIdOf(sub); id != 0 && id != c.BudgetId {
			panic(fin.InvariantViolation{
				Reason: "sub-command targets another budget"})
		}
	}
	for _, sub := range c.SubActions {
		state = Reduce(state, sub)
	}
	return state
}
