package fin

import (
	"github.com/keep94/goconsume"
)

// CatPopularity tells the popularity of each category
type CatPopularity interface {

	// Popularity returns the popularity of the category as a value
	// greater than or equal to zero. The higher the return value the
	// more popular the category.
	Popularity(categoryId int64) int
}

// BuildCatPopularity returns a consumer that consumes Transaction
// values to build a CatPopularity instance. The returned consumer
// consumes at most maxTransactionsToRead values that have at least one
// categorized detail and skips the rest. Caller must call Finalize on
// the returned consumer for the built CatPopularity instance to be
// stored at catPopularity.
func BuildCatPopularity(
	maxTransactionsToRead int,
	catPopularity *CatPopularity) goconsume.ConsumeFinalizer {
	popularities := make(catPopularityMap)
	consumer := goconsume.Slice(popularities, 0, maxTransactionsToRead)
	consumer = goconsume.Filter(consumer, categorized)
	return &catPopularityConsumer{
		Consumer: consumer, popularities: popularities, result: catPopularity}
}

type catPopularityMap map[int64]int

func (c catPopularityMap) Popularity(categoryId int64) int {
	return c[categoryId]
}

func (c catPopularityMap) CanConsume() bool {
	return true
}

func (c catPopularityMap) Consume(ptr interface{}) {
	txn := ptr.(*Transaction)
	for i := 0; i < txn.DetailCount(); i++ {
		if categoryId := txn.DetailByIndex(i).CategoryId(); categoryId != 0 {
			c[categoryId]++
		}
	}
}

func categorized(ptr interface{}) bool {
	txn := ptr.(*Transaction)
	for i := 0; i < txn.DetailCount(); i++ {
		if txn.DetailByIndex(i).CategoryId() != 0 {
			return true
		}
	}
	return false
}

type catPopularityConsumer struct {
	goconsume.Consumer
	popularities catPopularityMap
	result       *CatPopularity
	finalized    bool
}

func (c *catPopularityConsumer) Finalize() {
	if c.finalized {
		return
	}
	c.finalized = true
	c.Consumer = goconsume.Nil()
	*c.result = c.popularities
}
