package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/context"
	"github.com/keep94/appcommon/date_util"
	"github.com/keep94/appcommon/db"
	"github.com/keep94/appcommon/db/sqlite_db"
	"github.com/keep94/appcommon/logging"
	"github.com/keep94/budget/apps/budgetapp/catview"
	"github.com/keep94/budget/apps/budgetapp/list"
	"github.com/keep94/budget/apps/budgetapp/summary"
	"github.com/keep94/budget/apps/budgetapp/update"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
	"github.com/keep94/budget/fin/budgetdb/for_sqlite"
	"github.com/keep94/budget/fin/budgetdb/sqlite_setup"
	"github.com/keep94/gosqlite/sqlite"
	"github.com/keep94/ramstore"
	"github.com/keep94/weblogs"
	"gopkg.in/yaml.v2"
)

const (
	kSessionTimeout = 900
)

var (
	fConfig   string
	fPort     string
	fDb       string
	fTitle    string
	fBudgetId int64
)

var (
	kDoer          db.Doer
	kStore         for_sqlite.Store
	kReadOnlyStore for_sqlite.ReadOnlyStore
	kSessionStore  = ramstore.NewRAMStore(kSessionTimeout)
	kClock         date_util.SystemClock
)

// config is the optional yaml configuration file. Flags win over
// values set here.
type config struct {
	Port     string `yaml:"port"`
	Db       string `yaml:"db"`
	Title    string `yaml:"title"`
	BudgetId int64  `yaml:"budgetId"`
}

func main() {
	flag.Parse()
	if fConfig != "" {
		if err := applyConfig(fConfig); err != nil {
			fmt.Printf("Error reading config file - %v\n", err)
			return
		}
	}
	if fDb == "" {
		fmt.Println("Need to specify at least -db flag.")
		flag.Usage()
		return
	}
	setupDb(fDb)
	http.Handle(
		"/budget/",
		&summary.Handler{Store: kReadOnlyStore, BudgetId: fBudgetId})
	http.Handle(
		"/budget/categories",
		&catview.Handler{
			Store:    kReadOnlyStore,
			BudgetId: fBudgetId,
			Clock:    kClock})
	http.Handle(
		"/budget/list",
		&list.Handler{Store: kReadOnlyStore, BudgetId: fBudgetId})
	http.Handle(
		"/budget/command",
		&update.CommandHandler{
			Doer:         kDoer,
			Store:        kStore,
			BudgetId:     fBudgetId,
			SessionStore: kSessionStore})
	http.Handle(
		"/budget/undo",
		&update.UndoHandler{
			Doer:         kDoer,
			Store:        kStore,
			BudgetId:     fBudgetId,
			SessionStore: kSessionStore})
	http.Handle(
		"/budget/redo",
		&update.RedoHandler{
			Doer:         kDoer,
			Store:        kStore,
			BudgetId:     fBudgetId,
			SessionStore: kSessionStore})
	http.HandleFunc("/", rootRedirect)

	defaultHandler := context.ClearHandler(
		weblogs.HandlerWithOptions(
			http.DefaultServeMux,
			&weblogs.Options{
				Logger: logging.ApacheCommonLoggerWithLatency()}))
	if err := http.ListenAndServe(fPort, defaultHandler); err != nil {
		fmt.Println(err)
	}
}

func rootRedirect(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		http.Redirect(w, r, "/budget/", http.StatusFound)
	} else {
		http.NotFound(w, r)
	}
}

func init() {
	flag.StringVar(&fConfig, "config", "", "Path to yaml config file")
	flag.StringVar(&fPort, "http", ":8080", "Port to bind")
	flag.StringVar(&fDb, "db", "", "Path to database file")
	flag.StringVar(&fTitle, "title", "Budget", "Application title")
	flag.Int64Var(&fBudgetId, "budget", 1, "Id of the budget to serve")
}

func applyConfig(path string) error {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	var c config
	if err := yaml.Unmarshal(content, &c); err != nil {
		return err
	}
	setIfDefault(&fPort, "http", c.Port)
	setIfDefault(&fDb, "db", c.Db)
	setIfDefault(&fTitle, "title", c.Title)
	if c.BudgetId != 0 && !flagSet("budget") {
		fBudgetId = c.BudgetId
	}
	return nil
}

func setIfDefault(target *string, name, value string) {
	if value != "" && !flagSet(name) {
		*target = value
	}
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func setupDb(filepath string) {
	conn, err := sqlite.Open(filepath)
	if err != nil {
		panic(err.Error())
	}
	dbase := sqlite_db.New(conn)
	err = dbase.Do(func(conn *sqlite.Conn) error {
		return sqlite_setup.SetUpTables(conn)
	})
	if err != nil {
		panic(err.Error())
	}
	kDoer = sqlite_db.NewDoer(dbase)
	kStore = for_sqlite.New(dbase)
	kReadOnlyStore = for_sqlite.ReadOnlyWrapper(kStore)
	ensureBudget(dbase)
}

// ensureBudget creates the served budget on first run.
func ensureBudget(dbase *sqlite_db.Db) {
	var budget fin.Budget
	err := kStore.BudgetById(nil, fBudgetId, &budget)
	if err == nil {
		return
	}
	if err != budgetdb.NoSuchId {
		panic(err.Error())
	}
	var builder fin.BudgetBuilder
	budget = builder.SetName(fTitle).Build()
	if err := kStore.AddBudget(nil, &budget); err != nil {
		panic(err.Error())
	}
	fBudgetId = budget.Id()
}
