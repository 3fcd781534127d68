// Package consumers contains useful consumers of basic types
package consumers

import (
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
	"github.com/keep94/goconsume"
	"github.com/keep94/gofunctional3/consume"
)

// TransactionAggregator aggregates Transaction values.
type TransactionAggregator interface {
	Include(txn *fin.Transaction)
}

// FromTransactionAggregator converts a TransactionAggregator to a
// goconsume.Consumer of fin.Transaction values.
func FromTransactionAggregator(
	aggregator TransactionAggregator) goconsume.Consumer {
	return transactionAggregatorConsumer{aggregator: aggregator}
}

// FeedTransactions feeds budget's transactions to consumer in
// chronological order for as long as consumer can consume them.
func FeedTransactions(budget fin.Budget, consumer goconsume.Consumer) {
	for _, txn := range budget.Transactions() {
		if !consumer.CanConsume() {
			return
		}
		t := txn
		consumer.Consume(&t)
	}
}

// BudgetBuffer stores fin.Budget instances fetched from the database.
type BudgetBuffer struct {
	*consume.Buffer
}

// NewBudgetBuffer creates a BudgetBuffer that can store up to capacity
// fin.Budget instances.
func NewBudgetBuffer(capacity int) BudgetBuffer {
	return BudgetBuffer{consume.NewBuffer(make([]fin.Budget, capacity))}
}

// Budgets returns the budgets gathered from the last database fetch.
// Returned array valid until next call to Consume.
func (b BudgetBuffer) Budgets() []fin.Budget {
	return b.Values().([]fin.Budget)
}

// RecordedCommandBuffer stores budgetdb.RecordedCommand instances
// fetched from the database.
type RecordedCommandBuffer struct {
	*consume.Buffer
}

// NewRecordedCommandBuffer creates a RecordedCommandBuffer that can
// store up to capacity budgetdb.RecordedCommand instances.
func NewRecordedCommandBuffer(capacity int) RecordedCommandBuffer {
	return RecordedCommandBuffer{
		consume.NewBuffer(make([]budgetdb.RecordedCommand, capacity))}
}

// Commands returns the commands gathered from the last database fetch.
// Returned array valid until next call to Consume.
func (b RecordedCommandBuffer) Commands() []budgetdb.RecordedCommand {
	return b.Values().([]budgetdb.RecordedCommand)
}

type transactionAggregatorConsumer struct {
	aggregator TransactionAggregator
}

func (c transactionAggregatorConsumer) CanConsume() bool {
	return true
}

func (c transactionAggregatorConsumer) Consume(ptr interface{}) {
	c.aggregator.Include(ptr.(*fin.Transaction))
}
