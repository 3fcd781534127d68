// Package budgetdb contains the persistence layer for budgets and
// their command logs.
package budgetdb

import (
	"errors"
	"fmt"

	"github.com/keep94/appcommon/db"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/commands"
	"github.com/keep94/gofunctional3/functional"
)

var (
	NoSuchId = errors.New("budgetdb: No Such Id.")
)

type BudgetByIdRunner interface {
	// BudgetById fetches a budget by Id.
	BudgetById(t db.Transaction, id int64, budget *fin.Budget) error
}

type BudgetsRunner interface {
	// Budgets fetches all budgets ordered by Id.
	// consumer consumes the Stream of fin.Budget values.
	Budgets(t db.Transaction, consumer functional.Consumer) error
}

type AddBudgetRunner interface {
	// AddBudget adds a new budget, assigning it a fresh id. budget is
	// replaced with a copy carrying the assigned id.
	AddBudget(t db.Transaction, budget *fin.Budget) error
}

type UpdateBudgetRunner interface {
	// UpdateBudget replaces the stored budget with the same id.
	UpdateBudget(t db.Transaction, budget *fin.Budget) error
}

type RemoveBudgetRunner interface {
	// RemoveBudget removes a budget and its command log.
	RemoveBudget(t db.Transaction, id int64) error
}

type AppendCommandRunner interface {
	// AppendCommand appends a command to a budget's log, assigning
	// rc.Id.
	AppendCommand(t db.Transaction, rc *RecordedCommand) error
}

type CommandsByBudgetIdRunner interface {
	// CommandsByBudgetId fetches a budget's command log oldest first.
	// consumer consumes the Stream of RecordedCommand values.
	CommandsByBudgetId(
		t db.Transaction, budgetId int64, consumer functional.Consumer) error
}

type ClearCommandsRunner interface {
	// ClearCommands empties a budget's command log.
	ClearCommands(t db.Transaction, budgetId int64) error
}

// Store works with budgets and command logs together.
type Store interface {
	BudgetByIdRunner
	BudgetsRunner
	AddBudgetRunner
	UpdateBudgetRunner
	RemoveBudgetRunner
	AppendCommandRunner
	CommandsByBudgetIdRunner
	ClearCommandsRunner
}

// RecordedCommand is one entry of a budget's command log.
type RecordedCommand struct {
	// Unique Id, assigned by the store.
	Id int64
	// The budget the command was applied to.
	BudgetId int64
	// The command itself.
	Command commands.Command
}

// ApplyCommandStore is what ApplyCommand needs from a store.
type ApplyCommandStore interface {
	BudgetByIdRunner
	UpdateBudgetRunner
	AppendCommandRunner
}

// ApplyCommand loads a budget, reduces command against it, stores the
// result, and appends the command to the budget's log. An
// InvariantViolation raised by the reducer comes back as an error and
// leaves the stored budget alone.
func ApplyCommand(
	t db.Transaction, store ApplyCommandStore,
	budgetId int64, command commands.Command) (err error) {
	var budget fin.Budget
	if err = store.BudgetById(t, budgetId, &budget); err != nil {
		return
	}
	next, err := reduce(budget, command)
	if err != nil {
		return
	}
	if err = store.UpdateBudget(t, &next); err != nil {
		return
	}
	return store.AppendCommand(
		t, &RecordedCommand{BudgetId: budgetId, Command: command})
}

func reduce(
	budget fin.Budget, command commands.Command) (next fin.Budget, err error) {
	defer func() {
		if r := recover(); r != nil {
			if v, ok := r.(fin.InvariantViolation); ok {
				err = fmt.Errorf("budgetdb: %v", v)
				return
			}
			panic(r)
		}
	}()
	next = commands.Reduce(budget, command)
	return
}
