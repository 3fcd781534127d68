package fin

import (
	"testing"

	"github.com/keep94/budget/pdate"
)

func TestAccountBuilder(t *testing.T) {
	var builder AccountBuilder
	account := builder.
		SetId(7).
		SetName("Checking").
		SetInitialBalance(-12500).
		SetCurrency("EUR").
		SetMetadata(Metadata{"bank": "acme"}).
		Build()
	if account.Id() != 7 || account.Name() != "Checking" ||
		account.InitialBalance() != -12500 ||
		account.CurrencyCode() != "EUR" {
		t.Errorf("Built wrong account: %+v", account)
	}
	if account.Metadata()["bank"] != "acme" {
		t.Error("Expected metadata to round trip through builder")
	}

	// zero value builder uses the default currency
	plain := builder.SetName("Cash").Build()
	if plain.CurrencyCode() != "USD" {
		t.Errorf("Expected USD, got %s", plain.CurrencyCode())
	}
}

func TestAccountValueSemantics(t *testing.T) {
	var builder AccountBuilder
	account := builder.SetId(1).SetName("Checking").Build()
	changed := account.WithId(2)
	if account.Id() != 1 {
		t.Error("Expected WithId to leave the receiver unchanged")
	}
	if changed.Id() != 2 {
		t.Error("Expected WithId to take effect")
	}

	// mutating a fetched metadata copy must not touch the account
	withMeta := builder.
		Set(account).
		SetMetadata(Metadata{"color": "green"}).
		Build()
	m := withMeta.Metadata()
	m["color"] = "red"
	if withMeta.Metadata()["color"] != "green" {
		t.Error("Expected metadata to be copied out")
	}
}

func TestAccountEqual(t *testing.T) {
	var builder AccountBuilder
	account := builder.SetId(3).SetName("Savings").Build()
	same := builder.SetId(3).SetName("Savings").Build()
	if !account.Equal(same) {
		t.Error("Expected equal accounts")
	}
	if account.Equal(same.WithId(4)) {
		t.Error("Expected different accounts")
	}
}

func TestAccountInvariants(t *testing.T) {
	var builder AccountBuilder
	verifyPanics(t, func() {
		builder.SetId(-1).Build()
	})
	verifyPanics(t, func() {
		builder.SetCurrency("").Build()
	})
}

func TestCategoryGroup(t *testing.T) {
	group := NewCategoryGroup(2, "Essentials")
	if group.Id() != 2 || group.Name() != "Essentials" {
		t.Errorf("Built wrong group: %+v", group)
	}
	renamed := group.WithName("Fixed costs")
	if group.Name() != "Essentials" {
		t.Error("Expected WithName to leave the receiver unchanged")
	}
	if !renamed.Equal(NewCategoryGroup(2, "Fixed costs")) {
		t.Error("Expected equal groups")
	}
	verifyPanics(t, func() {
		NewCategoryGroup(-2, "bad")
	})
}

func TestCategoryBuilder(t *testing.T) {
	var ruleBuilder CategoryRuleBuilder
	rule := ruleBuilder.SetAmount(-5000).SetPeriod(Month).Build()
	var builder CategoryBuilder
	category := builder.
		SetId(11).
		SetName("Groceries").
		SetNotes("everything edible").
		SetGroupId(2).
		SetRules([]CategoryRule{rule}).
		Build()
	if category.IsAutomatic() {
		t.Error("Expected ruled category")
	}
	if category.RuleCount() != 1 || !category.RuleByIndex(0).Equal(rule) {
		t.Error("Expected one rule")
	}

	automatic := builder.Set(category).SetAutomatic().Build()
	if !automatic.IsAutomatic() || automatic.Rules() != nil {
		t.Error("Expected automatic category with nil rules")
	}

	// empty rules differ from automatic: they budget zero
	zeroed := builder.Set(category).SetRules(nil).Build()
	if zeroed.IsAutomatic() || zeroed.Rules() == nil {
		t.Error("Expected ruled category with empty rules")
	}
	if len(zeroed.Rules()) != 0 {
		t.Error("Expected no rules")
	}
}

func TestCategoryRulesCopied(t *testing.T) {
	var ruleBuilder CategoryRuleBuilder
	rule := ruleBuilder.SetAmount(-100).SetPeriod(Week).Build()
	other := ruleBuilder.SetAmount(-200).SetPeriod(Week).Build()
	var builder CategoryBuilder
	category := builder.SetId(1).SetGroupId(1).SetRules(
		[]CategoryRule{rule}).Build()
	rules := category.Rules()
	rules[0] = other
	if !category.RuleByIndex(0).Equal(rule) {
		t.Error("Expected rules to be copied out")
	}
}

func TestTransactionDetail(t *testing.T) {
	detail := NewTransactionDetail(-1050, "lunch", 4)
	if detail.Amount() != -1050 || detail.Description() != "lunch" ||
		detail.CategoryId() != 4 {
		t.Errorf("Built wrong detail: %+v", detail)
	}
	moved := detail.WithCategoryId(9)
	if detail.CategoryId() != 4 || moved.CategoryId() != 9 {
		t.Error("Expected WithCategoryId to copy")
	}
	verifyPanics(t, func() {
		NewTransactionDetail(0, "", -1)
	})
}

func TestTransactionBuilder(t *testing.T) {
	var builder TransactionBuilder
	txn := builder.
		SetId(21).
		SetDate(pdate.YMD(2016, 1, 10)).
		SetAccountId(7).
		SetWho("Blue Bottle").
		SetUserId(1).
		AddDetail(NewTransactionDetail(-450, "coffee", 4)).
		AddDetail(NewTransactionDetail(-600, "beans", 4)).
		Build()
	if txn.Total() != -1050 {
		t.Errorf("Expected total -1050, got %d", txn.Total())
	}
	if !txn.IsSplit() || txn.DetailCount() != 2 {
		t.Error("Expected split transaction")
	}
	if date, ok := txn.Date(); !ok || date != pdate.YMD(2016, 1, 10) {
		t.Error("Expected date 2016-01-10")
	}

	undated := builder.Set(txn).ClearDate().Build()
	if _, ok := undated.Date(); ok {
		t.Error("Expected undated transaction")
	}
	if _, ok := txn.Date(); !ok {
		t.Error("Expected receiver to keep its date")
	}
}

func TestTransactionInvariants(t *testing.T) {
	var builder TransactionBuilder
	verifyPanics(t, func() {
		builder.SetId(1).Build()
	})
	verifyPanics(t, func() {
		builder.
			SetId(1).
			SetTransfer(true).
			AddDetail(NewTransactionDetail(-100, "", 3)).
			Build()
	})
	// a transfer with uncategorized details is fine
	txn := builder.
		SetId(1).
		SetTransfer(true).
		AddDetail(NewTransactionDetail(-100, "", 0)).
		Build()
	if !txn.IsTransfer() {
		t.Error("Expected transfer")
	}
}

func TestTransactionDetailsCopied(t *testing.T) {
	var builder TransactionBuilder
	txn := builder.
		SetId(5).
		AddDetail(NewTransactionDetail(-100, "a", 0)).
		Build()
	details := txn.Details()
	details[0] = NewTransactionDetail(-999, "b", 0)
	if txn.DetailByIndex(0).Amount() != -100 {
		t.Error("Expected details to be copied out")
	}

	relinked := txn.WithDetailCategoryId(0, 8)
	if txn.DetailByIndex(0).CategoryId() != 0 {
		t.Error("Expected receiver to keep its details")
	}
	if relinked.DetailByIndex(0).CategoryId() != 8 {
		t.Error("Expected WithDetailCategoryId to take effect")
	}
}

func TestTransactionEqual(t *testing.T) {
	var builder TransactionBuilder
	txn := builder.
		SetId(5).
		SetDate(pdate.YMD(2016, 3, 3)).
		AddDetail(NewTransactionDetail(-100, "a", 2)).
		SetMetadata(Metadata{"note": "x"}).
		Build()
	same := builder.
		SetId(5).
		SetDate(pdate.YMD(2016, 3, 3)).
		AddDetail(NewTransactionDetail(-100, "a", 2)).
		SetMetadata(Metadata{"note": "x"}).
		Build()
	if !txn.Equal(same) {
		t.Error("Expected equal transactions")
	}
	if txn.Equal(builder.Set(txn).ClearDate().Build()) {
		t.Error("Expected different transactions")
	}
	if txn.Equal(builder.Set(txn).SetPending(true).Build()) {
		t.Error("Expected different transactions")
	}
}
