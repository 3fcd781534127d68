// Package fixture provides test suites to test implementations of the
// interfaces in the budgetdb package.
package fixture

import (
	"testing"

	"github.com/keep94/appcommon/db"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
	"github.com/keep94/budget/fin/commands"
	"github.com/keep94/budget/fin/consumers"
	"github.com/keep94/budget/pdate"
)

// Fixture tests implementations of the interfaces in the budgetdb
// package. Each exported method is one test.
type Fixture struct {
	Doer db.Doer
}

type MinimalStore interface {
	budgetdb.AddBudgetRunner
	budgetdb.BudgetByIdRunner
}

type UpdateBudgetStore interface {
	MinimalStore
	budgetdb.UpdateBudgetRunner
}

type RemoveBudgetStore interface {
	MinimalStore
	budgetdb.RemoveBudgetRunner
}

type BudgetsStore interface {
	MinimalStore
	budgetdb.BudgetsRunner
}

type CommandLogStore interface {
	MinimalStore
	budgetdb.AppendCommandRunner
	budgetdb.CommandsByBudgetIdRunner
	budgetdb.ClearCommandsRunner
}

type ApplyCommandStore interface {
	MinimalStore
	budgetdb.UpdateBudgetRunner
	budgetdb.AppendCommandRunner
	budgetdb.CommandsByBudgetIdRunner
}

func (f Fixture) SaveAndLoadBudget(t *testing.T, store MinimalStore) {
	budget := newBudget("Household")
	if err := store.AddBudget(nil, &budget); err != nil {
		t.Fatalf("Got error %v adding budget", err)
	}
	if budget.Id() == 0 {
		t.Fatal("Expected an assigned id")
	}
	var read fin.Budget
	if err := store.BudgetById(nil, budget.Id(), &read); err != nil {
		t.Fatalf("Got error %v reading budget", err)
	}
	if !read.Equal(budget) {
		t.Error("Expected stored budget to round trip")
	}
	if err := store.BudgetById(nil, 9999, &read); err != budgetdb.NoSuchId {
		t.Errorf("Expected NoSuchId, got %v", err)
	}
}

func (f Fixture) UpdateBudget(t *testing.T, store UpdateBudgetStore) {
	budget := newBudget("Household")
	if err := store.AddBudget(nil, &budget); err != nil {
		t.Fatalf("Got error %v adding budget", err)
	}
	budget = budget.WithName("Shared")
	if err := store.UpdateBudget(nil, &budget); err != nil {
		t.Fatalf("Got error %v updating budget", err)
	}
	var read fin.Budget
	if err := store.BudgetById(nil, budget.Id(), &read); err != nil {
		t.Fatalf("Got error %v reading budget", err)
	}
	if read.Name() != "Shared" {
		t.Errorf("Expected Shared, got %s", read.Name())
	}
}

func (f Fixture) RemoveBudget(t *testing.T, store RemoveBudgetStore) {
	budget := newBudget("Household")
	if err := store.AddBudget(nil, &budget); err != nil {
		t.Fatalf("Got error %v adding budget", err)
	}
	if err := store.RemoveBudget(nil, budget.Id()); err != nil {
		t.Fatalf("Got error %v removing budget", err)
	}
	var read fin.Budget
	if err := store.BudgetById(nil, budget.Id(), &read); err != budgetdb.NoSuchId {
		t.Errorf("Expected NoSuchId, got %v", err)
	}
}

func (f Fixture) ListBudgets(t *testing.T, store BudgetsStore) {
	first := newBudget("First")
	second := newBudget("Second")
	if err := store.AddBudget(nil, &first); err != nil {
		t.Fatalf("Got error %v adding budget", err)
	}
	if err := store.AddBudget(nil, &second); err != nil {
		t.Fatalf("Got error %v adding budget", err)
	}
	buffer := consumers.NewBudgetBuffer(10)
	if err := store.Budgets(nil, buffer); err != nil {
		t.Fatalf("Got error %v listing budgets", err)
	}
	budgets := buffer.Budgets()
	if len(budgets) != 2 {
		t.Fatalf("Expected 2 budgets, got %d", len(budgets))
	}
	if budgets[0].Name() != "First" || budgets[1].Name() != "Second" {
		t.Error("Expected budgets ordered by id")
	}
}

func (f Fixture) CommandLog(t *testing.T, store CommandLogStore) {
	budget := newBudget("Household")
	if err := store.AddBudget(nil, &budget); err != nil {
		t.Fatalf("Got error %v adding budget", err)
	}
	appended := []commands.Command{
		commands.SetName{BudgetId: budget.Id(), Name: "Shared"},
		commands.UpdateAccount{
			BudgetId: budget.Id(),
			Id:       1,
			Data:     &commands.AccountPatch{Name: strPtr("Checking")},
		},
	}
	for _, command := range appended {
		rc := budgetdb.RecordedCommand{
			BudgetId: budget.Id(), Command: command}
		if err := store.AppendCommand(nil, &rc); err != nil {
			t.Fatalf("Got error %v appending command", err)
		}
		if rc.Id == 0 {
			t.Error("Expected an assigned command id")
		}
	}
	buffer := consumers.NewRecordedCommandBuffer(10)
	if err := store.CommandsByBudgetId(nil, budget.Id(), buffer); err != nil {
		t.Fatalf("Got error %v listing commands", err)
	}
	read := buffer.Commands()
	if len(read) != 2 {
		t.Fatalf("Expected 2 commands, got %d", len(read))
	}
	if read[0].Command.CommandType() != commands.SetNameType {
		t.Error("Expected commands oldest first")
	}
	update, ok := read[1].Command.(commands.UpdateAccount)
	if !ok || *update.Data.Name != "Checking" {
		t.Error("Expected command payload to round trip")
	}

	if err := store.ClearCommands(nil, budget.Id()); err != nil {
		t.Fatalf("Got error %v clearing commands", err)
	}
	buffer = consumers.NewRecordedCommandBuffer(10)
	if err := store.CommandsByBudgetId(nil, budget.Id(), buffer); err != nil {
		t.Fatalf("Got error %v listing commands", err)
	}
	if len(buffer.Commands()) != 0 {
		t.Error("Expected empty command log")
	}
}

func (f Fixture) ApplyCommand(t *testing.T, store ApplyCommandStore) {
	budget := newBudget("Household")
	if err := store.AddBudget(nil, &budget); err != nil {
		t.Fatalf("Got error %v adding budget", err)
	}
	err := f.Doer.Do(func(t db.Transaction) error {
		return budgetdb.ApplyCommand(
			t, store, budget.Id(),
			commands.SetName{Name: "Shared"})
	})
	if err != nil {
		t.Fatalf("Got error %v applying command", err)
	}
	var read fin.Budget
	if err := store.BudgetById(nil, budget.Id(), &read); err != nil {
		t.Fatalf("Got error %v reading budget", err)
	}
	if read.Name() != "Shared" {
		t.Errorf("Expected Shared, got %s", read.Name())
	}
	buffer := consumers.NewRecordedCommandBuffer(10)
	if err := store.CommandsByBudgetId(nil, budget.Id(), buffer); err != nil {
		t.Fatalf("Got error %v listing commands", err)
	}
	if len(buffer.Commands()) != 1 {
		t.Error("Expected the applied command in the log")
	}

	// a command the reducer rejects leaves budget and log alone
	err = f.Doer.Do(func(t db.Transaction) error {
		return budgetdb.ApplyCommand(
			t, store, budget.Id(),
			commands.SetCurrency{CurrencyCode: "XXQ"})
	})
	if err == nil {
		t.Error("Expected error for unknown currency")
	}
	if err := store.BudgetById(nil, budget.Id(), &read); err != nil {
		t.Fatalf("Got error %v reading budget", err)
	}
	if read.CurrencyCode() != "USD" {
		t.Error("Expected failed command to leave the budget alone")
	}
}

func newBudget(name string) fin.Budget {
	var builder fin.BudgetBuilder
	return builder.
		SetName(name).
		SetStartDate(pdate.YMD(2016, 1, 1)).
		SetEndDate(pdate.YMD(2016, 12, 31)).
		Build()
}

func strPtr(s string) *string {
	return &s
}
