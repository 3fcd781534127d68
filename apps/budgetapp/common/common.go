// Package common provides routines common to all handlers in the
// budgetapp webapp.
package common

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/sessions"
	"github.com/keep94/appcommon/http_util"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/pdate"
)

const (
	kSessionCookieName = "session-cookie"
	kUndoStackKey      = "undo-stack"
	kRedoStackKey      = "redo-stack"
)

// NewGorillaSession creates a gorilla session for the budget app.
func NewGorillaSession(
	sessionStore sessions.Store, r *http.Request) (*sessions.Session, error) {
	return sessionStore.Get(r, kSessionCookieName)
}

// UndoStack returns the session's undo stack: serialized inverse
// commands, newest last.
func UndoStack(session *sessions.Session) []string {
	return commandStack(session, kUndoStackKey)
}

// SetUndoStack replaces the session's undo stack.
func SetUndoStack(session *sessions.Session, stack []string) {
	setCommandStack(session, kUndoStackKey, stack)
}

// RedoStack returns the session's redo stack: serialized commands,
// newest last.
func RedoStack(session *sessions.Session) []string {
	return commandStack(session, kRedoStackKey)
}

// SetRedoStack replaces the session's redo stack.
func SetRedoStack(session *sessions.Session, stack []string) {
	setCommandStack(session, kRedoStackKey, stack)
}

func commandStack(session *sessions.Session, key string) []string {
	stack, _ := session.Values[key].([]string)
	return stack
}

func setCommandStack(session *sessions.Session, key string, stack []string) {
	if len(stack) == 0 {
		delete(session.Values, key)
		return
	}
	session.Values[key] = stack
}

// ToDate converts a wall-clock time to a calendar date.
func ToDate(t time.Time) pdate.Date {
	return pdate.YMD(t.Year(), int(t.Month()), t.Day())
}

// ClampToBudget clamps date into budget's period.
func ClampToBudget(budget fin.Budget, date pdate.Date) pdate.Date {
	if date < budget.StartDate() {
		return budget.StartDate()
	}
	if date > budget.EndDate() {
		return budget.EndDate()
	}
	return date
}

// ListLinker creates URLs to the transaction list page.
type ListLinker struct {
}

// AccountLink returns a URL to the transaction list filtered by
// account.
func (l ListLinker) AccountLink(id int64) *url.URL {
	return http_util.NewUrl(
		"/budget/list",
		"acctId", strconv.FormatInt(id, 10))
}

// CategoriesLink returns a URL to the categories page for a given
// date.
func CategoriesLink(date pdate.Date) *url.URL {
	return http_util.NewUrl(
		"/budget/categories",
		"date", date.String())
}

// NewTemplate returns a new template instance. name is the name of the
// template; templateStr is the template string. The returned template
// has FormatDate and FormatAmount defined.
func NewTemplate(name, templateStr string) *template.Template {
	return template.Must(template.New(name).Funcs(
		template.FuncMap{
			"FormatDate":      formatDate,
			"FormatAmount":    formatAmount,
			"FormatAmountRaw": formatAmountRaw}).Parse(templateStr))
}

func formatAmountRaw(currencyCode string, amt int64) string {
	currency, ok := fin.CurrencyByCode(currencyCode)
	if !ok {
		return strconv.FormatInt(amt, 10)
	}
	return currency.FormatAmount(amt)
}

func formatAmount(currencyCode string, amt int64) template.HTML {
	negTemplate := `
      <span class="negative">(%s)</span>`
	positiveTemplate := `
      <span class="positive">%s</span>`
	if amt < 0 {
		return template.HTML(
			fmt.Sprintf(negTemplate, formatAmountRaw(currencyCode, -amt)))
	}
	return template.HTML(
		fmt.Sprintf(positiveTemplate, formatAmountRaw(currencyCode, amt)))
}

func formatDate(d pdate.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Month(), d.Day(), d.Year())
}
