// Package update applies commands to the budget and keeps per-session
// undo and redo stacks of inverse commands.
package update

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/keep94/appcommon/db"
	"github.com/keep94/appcommon/http_util"
	"github.com/keep94/budget/apps/budgetapp/common"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
	"github.com/keep94/budget/fin/commands"
)

type store interface {
	budgetdb.BudgetByIdRunner
	budgetdb.UpdateBudgetRunner
	budgetdb.AppendCommandRunner
}

// CommandHandler applies the command posted in the "command" form
// field and pushes its inverse onto the session's undo stack.
type CommandHandler struct {
	Doer         db.Doer
	Store        store
	BudgetId     int64
	SessionStore sessions.Store
}

func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http_util.Error(w, http.StatusMethodNotAllowed)
		return
	}
	r.ParseForm()
	command, err := commands.FromJSON([]byte(r.Form.Get("command")))
	if err != nil {
		http_util.ReportError(w, "Malformed command.", err)
		return
	}
	session, err := common.NewGorillaSession(h.SessionStore, r)
	if err != nil {
		http_util.ReportError(w, "Error reading session.", err)
		return
	}
	inverse, err := applyCommand(h.Doer, h.Store, h.BudgetId, command)
	if err != nil {
		http_util.ReportError(w, "Error applying command.", err)
		return
	}
	undo, err := pushCommand(common.UndoStack(session), inverse)
	if err != nil {
		http_util.ReportError(w, "Error recording undo.", err)
		return
	}
	common.SetUndoStack(session, undo)
	common.SetRedoStack(session, nil)
	session.Save(r, w)
	http_util.Redirect(w, r, "/budget/")
}

// UndoHandler applies the newest command on the session's undo stack
// and moves its inverse onto the redo stack.
type UndoHandler struct {
	Doer         db.Doer
	Store        store
	BudgetId     int64
	SessionStore sessions.Store
}

func (h *UndoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	moveCommand(
		w, r, h.Doer, h.Store, h.BudgetId, h.SessionStore,
		common.UndoStack, common.SetUndoStack,
		common.RedoStack, common.SetRedoStack)
}

// RedoHandler applies the newest command on the session's redo stack
// and moves its inverse back onto the undo stack.
type RedoHandler struct {
	Doer         db.Doer
	Store        store
	BudgetId     int64
	SessionStore sessions.Store
}

func (h *RedoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	moveCommand(
		w, r, h.Doer, h.Store, h.BudgetId, h.SessionStore,
		common.RedoStack, common.SetRedoStack,
		common.UndoStack, common.SetUndoStack)
}

func moveCommand(
	w http.ResponseWriter, r *http.Request,
	doer db.Doer, store store, budgetId int64,
	sessionStore sessions.Store,
	fromStack func(*sessions.Session) []string,
	setFromStack func(*sessions.Session, []string),
	toStack func(*sessions.Session) []string,
	setToStack func(*sessions.Session, []string)) {
	if r.Method != http.MethodPost {
		http_util.Error(w, http.StatusMethodNotAllowed)
		return
	}
	session, err := common.NewGorillaSession(sessionStore, r)
	if err != nil {
		http_util.ReportError(w, "Error reading session.", err)
		return
	}
	from := fromStack(session)
	if len(from) == 0 {
		http_util.Redirect(w, r, "/budget/")
		return
	}
	command, err := commands.FromJSON([]byte(from[len(from)-1]))
	if err != nil {
		http_util.ReportError(w, "Corrupt command stack.", err)
		return
	}
	inverse, err := applyCommand(doer, store, budgetId, command)
	if err != nil {
		http_util.ReportError(w, "Error applying command.", err)
		return
	}
	to, err := pushCommand(toStack(session), inverse)
	if err != nil {
		http_util.ReportError(w, "Error recording command.", err)
		return
	}
	setFromStack(session, from[:len(from)-1])
	setToStack(session, to)
	session.Save(r, w)
	http_util.Redirect(w, r, "/budget/")
}

// applyCommand applies command to the stored budget in one database
// transaction and returns the command's inverse against the state the
// command actually saw.
func applyCommand(
	doer db.Doer, store store, budgetId int64,
	command commands.Command) (inverse commands.Command, err error) {
	err = doer.Do(func(t db.Transaction) error {
		var budget fin.Budget
		if err := store.BudgetById(t, budgetId, &budget); err != nil {
			return err
		}
		inverse = commands.Invert(budget, command)
		return budgetdb.ApplyCommand(t, store, budgetId, command)
	})
	return
}

func pushCommand(
	stack []string, command commands.Command) ([]string, error) {
	buf, err := json.Marshal(command)
	if err != nil {
		return stack, err
	}
	return append(stack, string(buf)), nil
}
