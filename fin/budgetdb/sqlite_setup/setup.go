// Package sqlite_setup sets up a sqlite database for budgets.
package sqlite_setup

import (
	"github.com/keep94/gosqlite/sqlite"
)

// SetUpTables creates all needed tables in database.
func SetUpTables(conn *sqlite.Conn) error {
	err := conn.Exec("create table if not exists budgets (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, data TEXT)")
	if err != nil {
		return err
	}
	err = conn.Exec("create table if not exists budget_commands (id INTEGER PRIMARY KEY AUTOINCREMENT, budget_id INTEGER, data TEXT)")
	if err != nil {
		return err
	}
	return conn.Exec("create index if not exists budget_commands_budget_id_id_idx on budget_commands (budget_id, id)")
}
