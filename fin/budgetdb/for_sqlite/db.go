// Package for_sqlite stores budgets and command logs in a sqlite
// database.
package for_sqlite

import (
	"encoding/json"

	"github.com/keep94/appcommon/db"
	"github.com/keep94/appcommon/db/sqlite_db"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
	"github.com/keep94/budget/fin/commands"
	"github.com/keep94/gofunctional3/functional"
	"github.com/keep94/gosqlite/sqlite"
)

const (
	kSQLBudgetById    = "select id, name, data from budgets where id = ?"
	kSQLBudgets       = "select id, name, data from budgets order by id"
	kSQLInsertBudget  = "insert into budgets (name, data) values (?, ?)"
	kSQLUpdateBudget  = "update budgets set name = ?, data = ? where id = ?"
	kSQLRemoveBudget  = "delete from budgets where id = ?"
	kSQLCommandsById  = "select id, budget_id, data from budget_commands where budget_id = ? order by id"
	kSQLInsertCommand = "insert into budget_commands (budget_id, data) values (?, ?)"
	kSQLClearCommands = "delete from budget_commands where budget_id = ?"
)

func New(db *sqlite_db.Db) Store {
	return Store{db}
}

func ConnNew(conn *sqlite.Conn) Store {
	return Store{sqlite_db.NewSqliteDoer(conn)}
}

func ReadOnlyWrapper(store Store) ReadOnlyStore {
	return ReadOnlyStore{store: store}
}

type Store struct {
	db sqlite_db.Doer
}

func (s Store) BudgetById(
	t db.Transaction, id int64, budget *fin.Budget) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		return budgetById(conn, id, budget)
	})
}

func (s Store) Budgets(
	t db.Transaction, consumer functional.Consumer) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		return budgets(conn, consumer)
	})
}

func (s Store) AddBudget(t db.Transaction, budget *fin.Budget) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		return addBudget(conn, budget)
	})
}

func (s Store) UpdateBudget(t db.Transaction, budget *fin.Budget) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		return updateBudget(conn, budget)
	})
}

func (s Store) RemoveBudget(t db.Transaction, id int64) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		if err := conn.Exec(kSQLClearCommands, id); err != nil {
			return err
		}
		return conn.Exec(kSQLRemoveBudget, id)
	})
}

func (s Store) AppendCommand(
	t db.Transaction, rc *budgetdb.RecordedCommand) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		return appendCommand(conn, rc)
	})
}

func (s Store) CommandsByBudgetId(
	t db.Transaction, budgetId int64, consumer functional.Consumer) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		return commandsByBudgetId(conn, budgetId, consumer)
	})
}

func (s Store) ClearCommands(t db.Transaction, budgetId int64) error {
	return sqlite_db.ToDoer(s.db, t).Do(func(conn *sqlite.Conn) error {
		return conn.Exec(kSQLClearCommands, budgetId)
	})
}

// ReadOnlyStore provides the read operations of Store.
type ReadOnlyStore struct {
	store Store
}

func (s ReadOnlyStore) BudgetById(
	t db.Transaction, id int64, budget *fin.Budget) error {
	return s.store.BudgetById(t, id, budget)
}

func (s ReadOnlyStore) Budgets(
	t db.Transaction, consumer functional.Consumer) error {
	return s.store.Budgets(t, consumer)
}

func (s ReadOnlyStore) CommandsByBudgetId(
	t db.Transaction, budgetId int64, consumer functional.Consumer) error {
	return s.store.CommandsByBudgetId(t, budgetId, consumer)
}

func budgetById(conn *sqlite.Conn, id int64, budget *fin.Budget) error {
	return sqlite_db.ReadSingle(
		conn,
		&rawBudget{},
		budgetdb.NoSuchId,
		budget,
		kSQLBudgetById,
		id)
}

func budgets(conn *sqlite.Conn, consumer functional.Consumer) error {
	stmt, err := conn.Prepare(kSQLBudgets)
	if err != nil {
		return err
	}
	defer stmt.Finalize()
	return consumer.Consume(sqlite_db.ReadRows(&rawBudget{}, stmt))
}

func addBudget(conn *sqlite.Conn, budget *fin.Budget) error {
	stmt, err := conn.Prepare(kSQLInsertBudget)
	if err != nil {
		return err
	}
	defer stmt.Finalize()
	r := rawBudget{}
	r.Pair(budget)
	if err = r.Marshall(); err != nil {
		return err
	}
	lastRowIdStmt, err := conn.Prepare(sqlite_db.LastRowIdSQL)
	if err != nil {
		return err
	}
	defer lastRowIdStmt.Finalize()
	if err = stmt.Exec(r.name, r.data); err != nil {
		return err
	}
	stmt.Next()
	id, err := sqlite_db.LastRowIdFromStmt(lastRowIdStmt)
	if err != nil {
		return err
	}
	*budget = budget.WithId(id)
	// the stored form carries the assigned id too
	return updateBudget(conn, budget)
}

func updateBudget(conn *sqlite.Conn, budget *fin.Budget) error {
	r := rawBudget{}
	r.Pair(budget)
	if err := r.Marshall(); err != nil {
		return err
	}
	return conn.Exec(kSQLUpdateBudget, r.name, r.data, budget.Id())
}

func appendCommand(
	conn *sqlite.Conn, rc *budgetdb.RecordedCommand) error {
	stmt, err := conn.Prepare(kSQLInsertCommand)
	if err != nil {
		return err
	}
	defer stmt.Finalize()
	r := rawCommand{}
	r.Pair(rc)
	if err = r.Marshall(); err != nil {
		return err
	}
	lastRowIdStmt, err := conn.Prepare(sqlite_db.LastRowIdSQL)
	if err != nil {
		return err
	}
	defer lastRowIdStmt.Finalize()
	if err = stmt.Exec(rc.BudgetId, r.data); err != nil {
		return err
	}
	stmt.Next()
	rc.Id, err = sqlite_db.LastRowIdFromStmt(lastRowIdStmt)
	return err
}

func commandsByBudgetId(
	conn *sqlite.Conn, budgetId int64, consumer functional.Consumer) error {
	stmt, err := conn.Prepare(kSQLCommandsById)
	if err != nil {
		return err
	}
	defer stmt.Finalize()
	if err = stmt.Exec(budgetId); err != nil {
		return err
	}
	return consumer.Consume(sqlite_db.ReadRows(&rawCommand{}, stmt))
}

type rawBudget struct {
	*fin.Budget
	id   int64
	name string
	data string
}

func (r *rawBudget) Ptrs() []interface{} {
	return []interface{}{&r.id, &r.name, &r.data}
}

func (r *rawBudget) Values() []interface{} {
	return []interface{}{r.name, r.data, r.id}
}

func (r *rawBudget) Pair(ptr interface{}) {
	r.Budget = ptr.(*fin.Budget)
}

func (r *rawBudget) Unmarshall() error {
	var budget fin.Budget
	if err := json.Unmarshal([]byte(r.data), &budget); err != nil {
		return err
	}
	if budget.Id() != r.id {
		budget = budget.WithId(r.id)
	}
	*r.Budget = budget
	return nil
}

func (r *rawBudget) Marshall() error {
	buf, err := json.Marshal(*r.Budget)
	if err != nil {
		return err
	}
	r.id = r.Budget.Id()
	r.name = r.Budget.Name()
	r.data = string(buf)
	return nil
}

type rawCommand struct {
	*budgetdb.RecordedCommand
	data string
}

func (r *rawCommand) Ptrs() []interface{} {
	return []interface{}{&r.Id, &r.BudgetId, &r.data}
}

func (r *rawCommand) Values() []interface{} {
	return []interface{}{r.BudgetId, r.data, r.Id}
}

func (r *rawCommand) Pair(ptr interface{}) {
	r.RecordedCommand = ptr.(*budgetdb.RecordedCommand)
}

func (r *rawCommand) Unmarshall() (err error) {
	r.Command, err = commands.FromJSON([]byte(r.data))
	return
}

func (r *rawCommand) Marshall() error {
	buf, err := json.Marshal(r.Command)
	if err != nil {
		return err
	}
	r.data = string(buf)
	return nil
}
