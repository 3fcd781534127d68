// Package filters contains useful search filters.
package filters

import (
	"strings"

	"github.com/keep94/appcommon/str_util"
	"github.com/keep94/budget/fin"
	"github.com/keep94/goconsume"
)

// AmountFilter filters by amount. Returns true if amt should be
// included or false otherwise.
type AmountFilter func(amt int64) bool

// CategoryFilter filters by category. Returns true if categoryId
// should be included or false otherwise.
type CategoryFilter func(categoryId int64) bool

// AdvanceSearchSpec specifies what transactions to search for.
// Searches ignore case and whitespace.
type AdvanceSearchSpec struct {
	Who  string
	Desc string
	// If present, include only transactions with details that match CF.
	CF CategoryFilter
	// If present, include only transactions whose total matches AF.
	AF AmountFilter
}

// CompileAdvanceSearchSpec compiles a search specification into a
// filter of fin.Transaction values.
func CompileAdvanceSearchSpec(
	spec *AdvanceSearchSpec) goconsume.FilterFunc {
	var preds []func(txn *fin.Transaction) bool
	if spec.CF != nil {
		preds = append(preds, byCategory(spec.CF))
	}
	if spec.AF != nil {
		af := spec.AF
		preds = append(preds, func(txn *fin.Transaction) bool {
			return af(txn.Total())
		})
	}
	if spec.Who != "" {
		who := str_util.Normalize(spec.Who)
		preds = append(preds, func(txn *fin.Transaction) bool {
			return strings.Index(str_util.Normalize(txn.Who()), who) != -1
		})
	}
	if spec.Desc != "" {
		desc := str_util.Normalize(spec.Desc)
		preds = append(preds, func(txn *fin.Transaction) bool {
			for i := 0; i < txn.DetailCount(); i++ {
				normalized := str_util.Normalize(
					txn.DetailByIndex(i).Description())
				if strings.Index(normalized, desc) != -1 {
					return true
				}
			}
			return false
		})
	}
	return func(ptr interface{}) bool {
		txn := ptr.(*fin.Transaction)
		for _, pred := range preds {
			if !pred(txn) {
				return false
			}
		}
		return true
	}
}

func byCategory(cf CategoryFilter) func(txn *fin.Transaction) bool {
	return func(txn *fin.Transaction) bool {
		for i := 0; i < txn.DetailCount(); i++ {
			if cf(txn.DetailByIndex(i).CategoryId()) {
				return true
			}
		}
		return false
	}
}
