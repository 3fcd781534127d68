package for_sqlite

import (
	"testing"

	"github.com/keep94/appcommon/db/sqlite_db"
	"github.com/keep94/budget/fin/budgetdb/fixture"
	"github.com/keep94/budget/fin/budgetdb/sqlite_setup"
	"github.com/keep94/gosqlite/sqlite"
)

func TestSaveAndLoadBudget(t *testing.T) {
	db := openDb(t)
	defer closeDb(t, db)
	newFixture(db).SaveAndLoadBudget(t, New(db))
}

func TestUpdateBudget(t *testing.T) {
	db := openDb(t)
	defer closeDb(t, db)
	newFixture(db).UpdateBudget(t, New(db))
}

func TestRemoveBudget(t *testing.T) {
	db := openDb(t)
	defer closeDb(t, db)
	newFixture(db).RemoveBudget(t, New(db))
}

func TestListBudgets(t *testing.T) {
	db := openDb(t)
	defer closeDb(t, db)
	newFixture(db).ListBudgets(t, New(db))
}

func TestCommandLog(t *testing.T) {
	db := openDb(t)
	defer closeDb(t, db)
	newFixture(db).CommandLog(t, New(db))
}

func TestApplyCommand(t *testing.T) {
	db := openDb(t)
	defer closeDb(t, db)
	newFixture(db).ApplyCommand(t, New(db))
}

func newFixture(db *sqlite_db.Db) fixture.Fixture {
	return fixture.Fixture{Doer: sqlite_db.NewDoer(db)}
}

func closeDb(t *testing.T, db *sqlite_db.Db) {
	if err := db.Close(); err != nil {
		t.Errorf("Error closing database: %v", err)
	}
}

func openDb(t *testing.T) *sqlite_db.Db {
	conn, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("Error opening database: %v", err)
	}
	db := sqlite_db.New(conn)
	err = db.Do(func(conn *sqlite.Conn) error {
		return sqlite_setup.SetUpTables(conn)
	})
	if err != nil {
		t.Fatalf("Error creating tables: %v", err)
	}
	return db
}
