package fin

import (
	"github.com/keep94/budget/pdate"
)

// WithId returns a copy of this budget with the given id.
func (b Budget) WithId(id int64) Budget {
	data := b.data().clone()
	data.id = id
	return newBudget(data)
}

// WithName returns a copy of this budget with the given name.
func (b Budget) WithName(name string) Budget {
	data := b.data().clone()
	data.name = name
	return newBudget(data)
}

// WithCurrency returns a copy of this budget with the given display
// currency.
func (b Budget) WithCurrency(code string) Budget {
	data := b.data().clone()
	data.currencyCode = code
	return newBudget(data)
}

// WithStartDate returns a copy of this budget starting on date.
func (b Budget) WithStartDate(date pdate.Date) Budget {
	data := b.data().clone()
	data.startDate = date
	return newBudget(data)
}

// WithEndDate returns a copy of this budget ending on date.
func (b Budget) WithEndDate(date pdate.Date) Budget {
	data := b.data().clone()
	data.endDate = date
	return newBudget(data)
}

// UpdateAccount adds or replaces an account by id. New accounts go to
// the end of the user-defined order; existing ones keep their position.
func (b Budget) UpdateAccount(account Account) Budget {
	if account.id == 0 {
		violation("cannot update an account without an id")
	}
	data := b.data().clone()
	if idx, ok := b.data().accountIdx[account.id]; ok {
		data.accounts[idx] = account
	} else {
		data.accounts = append(data.accounts, account)
	}
	return newBudget(data)
}

// PositionAccount moves the account with the given id to index in the
// user-defined order. index may range from 0 to the number of accounts.
func (b Budget) PositionAccount(id int64, index int) Budget {
	cur, ok := b.data().accountIdx[id]
	if !ok {
		violation("no account %d to position", id)
	}
	if index < 0 || index > len(b.data().accounts) {
		violation("account position %d out of bounds", index)
	}
	data := b.data().clone()
	account := data.accounts[cur]
	data.accounts = append(data.accounts[:cur], data.accounts[cur+1:]...)
	data.accounts = insertAccount(data.accounts, account, index)
	return newBudget(data)
}

// DeleteAccount removes the account with the given id and unlinks every
// transaction that referenced it. Deleting a missing account changes
// nothing.
func (b Budget) DeleteAccount(id int64) Budget {
	cur, ok := b.data().accountIdx[id]
	if !ok {
		return b
	}
	data := b.data().clone()
	data.accounts = append(data.accounts[:cur], data.accounts[cur+1:]...)
	for i := range data.transactions {
		if data.transactions[i].accountId == id {
			data.transactions[i] = data.transactions[i].WithAccountId(0)
		}
	}
	return newBudget(data)
}

// UpdateCategoryGroup adds or replaces a category group by id. New
// groups go to the end of the user-defined order; existing ones keep
// their position.
func (b Budget) UpdateCategoryGroup(group CategoryGroup) Budget {
	if group.id == 0 {
		violation("cannot update a category group without an id")
	}
	data := b.data().clone()
	if idx, ok := b.data().groupIdx[group.id]; ok {
		data.groups[idx] = group
	} else {
		data.groups = append(data.groups, group)
	}
	return newBudget(data)
}

// PositionCategoryGroup moves the group with the given id to index in
// the user-defined order. The categories re-sort to follow the new
// group order.
func (b Budget) PositionCategoryGroup(id int64, index int) Budget {
	cur, ok := b.data().groupIdx[id]
	if !ok {
		violation("no category group %d to position", id)
	}
	if index < 0 || index > len(b.data().groups) {
		violation("category group position %d out of bounds", index)
	}
	data := b.data().clone()
	group := data.groups[cur]
	data.groups = append(data.groups[:cur], data.groups[cur+1:]...)
	data.groups = insertGroup(data.groups, group, index)
	sortCategories(data)
	return newBudget(data)
}

// DeleteCategoryGroup removes the group with the given id. Deleting a
// group that still has categories panics with InvariantViolation.
// Deleting a missing group changes nothing.
func (b Budget) DeleteCategoryGroup(id int64) Budget {
	cur, ok := b.data().groupIdx[id]
	if !ok {
		return b
	}
	for _, category := range b.data().categories {
		if category.groupId == id {
			violation("category group %d still has categories", id)
		}
	}
	data := b.data().clone()
	data.groups = append(data.groups[:cur], data.groups[cur+1:]...)
	return newBudget(data)
}

// UpdateCategory adds or replaces a category by id. A category whose
// group is unchanged keeps its position. A new category, or one moved
// to a different group, goes to the end of its group's segment.
func (b Budget) UpdateCategory(category Category) Budget {
	if category.id == 0 {
		violation("cannot update a category without an id")
	}
	data := b.data().clone()
	idx, ok := b.data().categoryIdx[category.id]
	if ok && data.categories[idx].groupId == category.groupId {
		data.categories[idx] = category
		return newBudget(data)
	}
	if ok {
		data.categories = append(
			data.categories[:idx], data.categories[idx+1:]...)
	}
	data.categories = append(data.categories, category)
	sortCategories(data)
	return newBudget(data)
}

// PositionCategory moves the category with the given id to index within
// its own group. Other groups keep their internal order.
func (b Budget) PositionCategory(id int64, index int) Budget {
	cur, ok := b.data().categoryIdx[id]
	if !ok {
		violation("no category %d to position", id)
	}
	groupId := b.data().categories[cur].groupId
	segment := groupSegment(b.data().categories, groupId)
	if index < 0 || index > len(segment) {
		violation("category position %d out of bounds", index)
	}
	data := b.data().clone()
	category := data.categories[cur]
	data.categories = append(data.categories[:cur], data.categories[cur+1:]...)
	segment = groupSegment(data.categories, groupId)
	pos := index
	if pos > len(segment) {
		pos = len(segment)
	}
	var global int
	if len(segment) == 0 {
		// category was alone in its group; it goes back where it was
		global = cur
	} else if pos == len(segment) {
		global = segment[pos-1] + 1
	} else {
		global = segment[pos]
	}
	data.categories = insertCategory(data.categories, category, global)
	return newBudget(data)
}

// DeleteCategory removes the category with the given id and
// uncategorizes every transaction detail that referenced it. Deleting a
// missing category changes nothing.
func (b Budget) DeleteCategory(id int64) Budget {
	cur, ok := b.data().categoryIdx[id]
	if !ok {
		return b
	}
	data := b.data().clone()
	data.categories = append(data.categories[:cur], data.categories[cur+1:]...)
	for i := range data.transactions {
		txn := data.transactions[i]
		for j := 0; j < txn.DetailCount(); j++ {
			if txn.DetailByIndex(j).categoryId == id {
				txn = txn.WithDetailCategoryId(j, 0)
			}
		}
		data.transactions[i] = txn
	}
	return newBudget(data)
}

// UpdateTransaction adds or replaces a transaction by id, keeping the
// chronological order. The transaction's account must exist or be
// unset. Updates that leave the date unchanged skip the re-sort.
func (b Budget) UpdateTransaction(txn Transaction) Budget {
	if txn.id == 0 {
		violation("cannot update a transaction without an id")
	}
	data := b.data().clone()
	idx, ok := b.data().txnIdx[txn.id]
	if ok {
		sameDate := data.transactions[idx].sortKey() == txn.sortKey()
		data.transactions[idx] = txn
		if !sameDate {
			sortTransactions(data)
		}
	} else {
		data.transactions = append(data.transactions, txn)
		sortTransactions(data)
	}
	return newBudget(data)
}

// DeleteTransaction removes the transaction with the given id. Deleting
// a missing transaction changes nothing.
func (b Budget) DeleteTransaction(id int64) Budget {
	cur, ok := b.data().txnIdx[id]
	if !ok {
		return b
	}
	data := b.data().clone()
	data.transactions = append(
		data.transactions[:cur], data.transactions[cur+1:]...)
	return newBudget(data)
}

// groupSegment returns the global positions of the categories of one
// group in order.
func groupSegment(categories []Category, groupId int64) []int {
	var result []int
	for i := range categories {
		if categories[i].groupId == groupId {
			result = append(result, i)
		}
	}
	return result
}

func insertAccount(s []Account, v Account, i int) []Account {
	if i > len(s) {
		i = len(s)
	}
	s = append(s, Account{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertGroup(s []CategoryGroup, v CategoryGroup, i int) []CategoryGroup {
	if i > len(s) {
		i = len(s)
	}
	s = append(s, CategoryGroup{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertCategory(s []Category, v Category, i int) []Category {
	if i > len(s) {
		i = len(s)
	}
	s = append(s, Category{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
