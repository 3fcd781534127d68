package fin

import (
	"testing"

	"github.com/keep94/budget/pdate"
)

func newTestBudget() Budget {
	var builder BudgetBuilder
	return builder.
		SetId(1).
		SetName("Household").
		SetStartDate(pdate.YMD(2016, 1, 1)).
		SetEndDate(pdate.YMD(2016, 12, 31)).
		AddAccount(testAccount(1, "Checking")).
		AddAccount(testAccount(2, "Savings")).
		AddCategoryGroup(NewCategoryGroup(1, "Essentials")).
		AddCategoryGroup(NewCategoryGroup(2, "Fun")).
		AddCategory(testCategory(1, "Rent", 1)).
		AddCategory(testCategory(2, "Groceries", 1)).
		AddCategory(testCategory(3, "Dining", 2)).
		AddCategory(testCategory(4, "Movies", 2)).
		Build()
}

func testAccount(id int64, name string) Account {
	var builder AccountBuilder
	return builder.SetId(id).SetName(name).Build()
}

func testCategory(id int64, name string, groupId int64) Category {
	var builder CategoryBuilder
	return builder.SetId(id).SetName(name).SetGroupId(groupId).Build()
}

func testTransaction(
	id int64, date pdate.Date, accountId int64,
	amount int64, categoryId int64) Transaction {
	var builder TransactionBuilder
	return builder.
		SetId(id).
		SetDate(date).
		SetAccountId(accountId).
		AddDetail(NewTransactionDetail(amount, "", categoryId)).
		Build()
}

func TestZeroBudget(t *testing.T) {
	var budget Budget
	if budget.AccountCount() != 0 || budget.TransactionCount() != 0 {
		t.Error("Expected empty budget")
	}
	if budget.EndDate() < budget.StartDate() {
		t.Error("Expected a valid default period")
	}
	if budget.CurrencyCode() != "USD" {
		t.Error("Expected default currency")
	}
}

func TestBudgetImmutable(t *testing.T) {
	budget := newTestBudget()
	updated := budget.WithName("Shared")
	if budget.Name() != "Household" {
		t.Error("Expected WithName to leave the receiver unchanged")
	}
	if updated.Name() != "Shared" {
		t.Error("Expected WithName to take effect")
	}
	bigger := budget.UpdateAccount(testAccount(3, "Cash"))
	if budget.AccountCount() != 2 || bigger.AccountCount() != 3 {
		t.Error("Expected UpdateAccount to copy")
	}

	// mutating a fetched slice must not touch the budget
	accounts := budget.Accounts()
	accounts[0] = testAccount(99, "Evil")
	if account, _ := budget.AccountById(1); account.Name() != "Checking" {
		t.Error("Expected accounts to be copied out")
	}
}

func TestBudgetInvariants(t *testing.T) {
	var builder BudgetBuilder
	verifyPanics(t, func() {
		builder.
			SetStartDate(pdate.YMD(2016, 12, 31)).
			SetEndDate(pdate.YMD(2016, 1, 1)).
			Build()
	})
	verifyPanics(t, func() {
		builder.SetCurrency("XXQ").Build()
	})
	// category without its group
	verifyPanics(t, func() {
		builder.AddCategory(testCategory(1, "Orphan", 9)).Build()
	})
	// duplicate account ids
	verifyPanics(t, func() {
		builder.
			AddAccount(testAccount(1, "A")).
			AddAccount(testAccount(1, "B")).
			Build()
	})
	// transaction on a missing account
	verifyPanics(t, func() {
		builder.
			AddTransaction(
				testTransaction(1, pdate.YMD(2016, 2, 1), 5, -100, 0)).
			Build()
	})
}

func TestOverlappingRules(t *testing.T) {
	var ruleBuilder CategoryRuleBuilder
	monthly := ruleBuilder.
		SetAmount(-5000).
		SetPeriod(Month).
		SetStartDate(pdate.YMD(2016, 1, 15)).
		Build()
	alsoMonthly := ruleBuilder.
		SetAmount(-7000).
		SetPeriod(Month).
		SetStartDate(pdate.YMD(2016, 6, 15)).
		Build()
	var catBuilder CategoryBuilder
	overlapping := catBuilder.
		SetId(1).
		SetGroupId(1).
		SetRules([]CategoryRule{monthly, alsoMonthly}).
		Build()
	var builder BudgetBuilder
	verifyPanics(t, func() {
		builder.
			SetStartDate(pdate.YMD(2016, 1, 1)).
			SetEndDate(pdate.YMD(2016, 12, 31)).
			AddCategoryGroup(NewCategoryGroup(1, "Essentials")).
			AddCategory(overlapping).
			Build()
	})

	// ending the first rule before the second starts resolves it
	bounded := ruleBuilder.
		Set(monthly).
		SetEndDate(pdate.YMD(2016, 5, 31)).
		Build()
	fine := catBuilder.
		SetId(1).
		SetGroupId(1).
		SetRules([]CategoryRule{bounded, alsoMonthly}).
		Build()
	builder.
		SetStartDate(pdate.YMD(2016, 1, 1)).
		SetEndDate(pdate.YMD(2016, 12, 31)).
		AddCategoryGroup(NewCategoryGroup(1, "Essentials")).
		AddCategory(fine).
		Build()
}

func TestAccountOrdering(t *testing.T) {
	budget := newTestBudget()
	verifyAccountOrder(t, budget, 1, 2)

	budget = budget.PositionAccount(2, 0)
	verifyAccountOrder(t, budget, 2, 1)

	budget = budget.UpdateAccount(testAccount(3, "Cash"))
	verifyAccountOrder(t, budget, 2, 1, 3)

	// moving to the end accepts both size-1 and size
	budget = budget.PositionAccount(2, 3)
	verifyAccountOrder(t, budget, 1, 3, 2)

	verifyPanics(t, func() {
		budget.PositionAccount(2, 4)
	})
	verifyPanics(t, func() {
		budget.PositionAccount(2, -1)
	})
	verifyPanics(t, func() {
		budget.PositionAccount(99, 0)
	})
}

func TestUpdateAccountInPlace(t *testing.T) {
	budget := newTestBudget()
	account, _ := budget.AccountById(1)
	var builder AccountBuilder
	budget = budget.UpdateAccount(
		builder.Set(account).SetName("Joint checking").Build())
	verifyAccountOrder(t, budget, 1, 2)
	if account, _ := budget.AccountById(1); account.Name() != "Joint checking" {
		t.Error("Expected rename")
	}
	verifyPanics(t, func() {
		budget.UpdateAccount(Account{})
	})
}

func TestDeleteAccountUnlinks(t *testing.T) {
	budget := newTestBudget().
		UpdateTransaction(
			testTransaction(1, pdate.YMD(2016, 1, 5), 1, -100, 2)).
		UpdateTransaction(
			testTransaction(2, pdate.YMD(2016, 1, 6), 2, -200, 2))
	budget = budget.DeleteAccount(1)
	if _, ok := budget.AccountById(1); ok {
		t.Error("Expected account gone")
	}
	txn, _ := budget.TransactionById(1)
	if txn.AccountId() != 0 {
		t.Error("Expected transaction unlinked from deleted account")
	}
	txn, _ = budget.TransactionById(2)
	if txn.AccountId() != 2 {
		t.Error("Expected other transaction untouched")
	}
	// deleting again changes nothing
	if !budget.DeleteAccount(1).Equal(budget) {
		t.Error("Expected deleting a missing account to change nothing")
	}
}

func TestCategoryDualOrdering(t *testing.T) {
	budget := newTestBudget()
	verifyCategoryOrder(t, budget, 1, 2, 3, 4)

	// moving a group re-sorts the categories behind it
	budget = budget.PositionCategoryGroup(2, 0)
	verifyCategoryOrder(t, budget, 3, 4, 1, 2)

	// a category moved to another group lands at the end of its segment
	category, _ := budget.CategoryById(3)
	var builder CategoryBuilder
	budget = budget.UpdateCategory(
		builder.Set(category).SetGroupId(1).Build())
	verifyCategoryOrder(t, budget, 4, 1, 2, 3)
	if idx, _ := budget.CategoryIndexInGroup(3); idx != 2 {
		t.Errorf("Expected group index 2, got %d", idx)
	}

	// repositioning within the group leaves other groups alone
	budget = budget.PositionCategory(3, 0)
	verifyCategoryOrder(t, budget, 4, 3, 1, 2)

	verifyPanics(t, func() {
		budget.PositionCategory(3, 4)
	})
}

func TestUpdateCategoryInPlace(t *testing.T) {
	budget := newTestBudget()
	category, _ := budget.CategoryById(2)
	var builder CategoryBuilder
	budget = budget.UpdateCategory(
		builder.Set(category).SetName("Food").Build())
	verifyCategoryOrder(t, budget, 1, 2, 3, 4)
	if category, _ := budget.CategoryById(2); category.Name() != "Food" {
		t.Error("Expected rename")
	}
}

func TestDeleteCategoryUncategorizes(t *testing.T) {
	var builder TransactionBuilder
	split := builder.
		SetId(1).
		SetDate(pdate.YMD(2016, 1, 5)).
		SetAccountId(1).
		AddDetail(NewTransactionDetail(-100, "", 2)).
		AddDetail(NewTransactionDetail(-200, "", 3)).
		Build()
	budget := newTestBudget().UpdateTransaction(split)
	budget = budget.DeleteCategory(2)
	if _, ok := budget.CategoryById(2); ok {
		t.Error("Expected category gone")
	}
	txn, _ := budget.TransactionById(1)
	if txn.DetailByIndex(0).CategoryId() != 0 {
		t.Error("Expected detail uncategorized")
	}
	if txn.DetailByIndex(1).CategoryId() != 3 {
		t.Error("Expected other detail untouched")
	}
}

func TestDeleteCategoryGroup(t *testing.T) {
	budget := newTestBudget()
	verifyPanics(t, func() {
		budget.DeleteCategoryGroup(1)
	})
	budget = budget.DeleteCategory(3).DeleteCategory(4)
	budget = budget.DeleteCategoryGroup(2)
	if _, ok := budget.CategoryGroupById(2); ok {
		t.Error("Expected group gone")
	}
}

func TestTransactionChronology(t *testing.T) {
	budget := newTestBudget().
		UpdateTransaction(
			testTransaction(1, pdate.YMD(2016, 3, 1), 1, -100, 2)).
		UpdateTransaction(
			testTransaction(2, pdate.YMD(2016, 1, 1), 1, -100, 2)).
		UpdateTransaction(
			testTransaction(3, pdate.YMD(2016, 2, 1), 1, -100, 2))
	verifyTransactionOrder(t, budget, 2, 3, 1)

	// same date keeps insertion order
	budget = budget.UpdateTransaction(
		testTransaction(4, pdate.YMD(2016, 2, 1), 1, -500, 2))
	verifyTransactionOrder(t, budget, 2, 3, 4, 1)

	// undated transactions go last
	var builder TransactionBuilder
	undated := builder.
		SetId(5).
		SetAccountId(1).
		AddDetail(NewTransactionDetail(-100, "", 0)).
		Build()
	budget = budget.UpdateTransaction(undated)
	verifyTransactionOrder(t, budget, 2, 3, 4, 1, 5)

	// a date change re-sorts, an amount change does not
	txn, _ := budget.TransactionById(3)
	budget = budget.UpdateTransaction(
		builder.Set(txn).SetDate(pdate.YMD(2016, 4, 1)).Build())
	verifyTransactionOrder(t, budget, 2, 4, 1, 3, 5)
	txn, _ = budget.TransactionById(4)
	budget = budget.UpdateTransaction(
		builder.
			Set(txn).
			SetDetails(
				[]TransactionDetail{NewTransactionDetail(-900, "", 2)}).
			Build())
	verifyTransactionOrder(t, budget, 2, 4, 1, 3, 5)

	verifyPanics(t, func() {
		budget.UpdateTransaction(
			testTransaction(9, pdate.YMD(2016, 5, 1), 42, -100, 0))
	})
}

func TestDeleteTransaction(t *testing.T) {
	budget := newTestBudget().
		UpdateTransaction(
			testTransaction(1, pdate.YMD(2016, 3, 1), 1, -100, 2))
	budget = budget.DeleteTransaction(1)
	if budget.TransactionCount() != 0 {
		t.Error("Expected transaction gone")
	}
	if !budget.DeleteTransaction(1).Equal(budget) {
		t.Error("Expected deleting a missing transaction to change nothing")
	}
}

func verifyAccountOrder(t *testing.T, budget Budget, ids ...int64) {
	t.Helper()
	accounts := budget.Accounts()
	if len(accounts) != len(ids) {
		t.Errorf("Expected %d accounts, got %d", len(ids), len(accounts))
		return
	}
	for i := range accounts {
		if accounts[i].Id() != ids[i] {
			t.Errorf(
				"Expected account %d at %d, got %d",
				ids[i], i, accounts[i].Id())
		}
	}
}

func verifyCategoryOrder(t *testing.T, budget Budget, ids ...int64) {
	t.Helper()
	categories := budget.Categories()
	if len(categories) != len(ids) {
		t.Errorf(
			"Expected %d categories, got %d", len(ids), len(categories))
		return
	}
	for i := range categories {
		if categories[i].Id() != ids[i] {
			t.Errorf(
				"Expected category %d at %d, got %d",
				ids[i], i, categories[i].Id())
		}
	}
}

func verifyTransactionOrder(t *testing.T, budget Budget, ids ...int64) {
	t.Helper()
	txns := budget.Transactions()
	if len(txns) != len(ids) {
		t.Errorf("Expected %d transactions, got %d", len(ids), len(txns))
		return
	}
	for i := range txns {
		if txns[i].Id() != ids[i] {
			t.Errorf(
				"Expected transaction %d at %d, got %d",
				ids[i], i, txns[i].Id())
		}
	}
}
