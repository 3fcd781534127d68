package filters

import (
	"testing"

	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/pdate"
	"github.com/keep94/goconsume"
)

func newTransaction(who string, details ...fin.TransactionDetail) fin.Transaction {
	var builder fin.TransactionBuilder
	builder.SetId(1).SetDate(pdate.YMD(2016, 1, 5)).SetWho(who)
	for _, detail := range details {
		builder.AddDetail(detail)
	}
	return builder.Build()
}

func TestCompileAdvanceSearchSpec(t *testing.T) {
	groceries := newTransaction(
		"Corner Store",
		fin.NewTransactionDetail(-1200, "paper towels", 2),
		fin.NewTransactionDetail(-800, "milk", 3))
	rent := newTransaction(
		"Landlord LLC",
		fin.NewTransactionDetail(-60000, "rent", 1))

	filter := CompileAdvanceSearchSpec(&AdvanceSearchSpec{Who: "corner"})
	if !filter(&groceries) || filter(&rent) {
		t.Error("Who filter failed")
	}

	filter = CompileAdvanceSearchSpec(&AdvanceSearchSpec{Desc: "MILK"})
	if !filter(&groceries) || filter(&rent) {
		t.Error("Desc filter failed")
	}

	filter = CompileAdvanceSearchSpec(&AdvanceSearchSpec{
		CF: func(categoryId int64) bool { return categoryId == 1 },
	})
	if filter(&groceries) || !filter(&rent) {
		t.Error("Category filter failed")
	}

	filter = CompileAdvanceSearchSpec(&AdvanceSearchSpec{
		AF: func(amt int64) bool { return amt < -10000 },
	})
	if filter(&groceries) || !filter(&rent) {
		t.Error("Amount filter failed")
	}

	// filters compose
	filter = CompileAdvanceSearchSpec(&AdvanceSearchSpec{
		Who: "corner",
		AF:  func(amt int64) bool { return amt < -10000 },
	})
	if filter(&groceries) || filter(&rent) {
		t.Error("Composed filter failed")
	}

	// an empty spec matches everything
	filter = CompileAdvanceSearchSpec(&AdvanceSearchSpec{})
	if !filter(&groceries) || !filter(&rent) {
		t.Error("Empty filter failed")
	}
}

func TestFilterWithConsumer(t *testing.T) {
	groceries := newTransaction(
		"Corner Store", fin.NewTransactionDetail(-1200, "milk", 2))
	rent := newTransaction(
		"Landlord LLC", fin.NewTransactionDetail(-60000, "rent", 1))
	var matched []fin.Transaction
	var consumer goconsume.Consumer
	consumer = goconsume.ConsumerFunc(func(ptr interface{}) {
		matched = append(matched, *ptr.(*fin.Transaction))
	})
	consumer = goconsume.Filter(
		consumer,
		CompileAdvanceSearchSpec(&AdvanceSearchSpec{Who: "landlord"}))
	for _, txn := range []fin.Transaction{groceries, rent} {
		t := txn
		consumer.Consume(&t)
	}
	if len(matched) != 1 || matched[0].Who() != "Landlord LLC" {
		t.Errorf("Expected just the rent transaction, got %v", matched)
	}
}
