package summary

import (
	"html/template"
	"net/http"

	"github.com/keep94/appcommon/http_util"
	"github.com/keep94/budget/apps/budgetapp/common"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
)

var (
	kTemplateSpec = `
<html>
<head>
  <title>{{.Budget.Name}}</title>
</head>
<body>
<h2>{{.Budget.Name}}</h2>
{{FormatDate .Budget.StartDate}} &ndash; {{FormatDate .Budget.EndDate}}<br><br>
<a href="/budget/categories">Categories</a>
<a href="/budget/list">Transactions</a><br><br>
<table border=1>
  <tr>
    <td>Account</td>
    <td>Currency</td>
    <td>Balance</td>
  </tr>
{{with $top := .}}
  {{range .Accounts}}
    <tr>
      <td><a href="{{$top.AccountLink .Account.Id}}">{{.Account.Name}}</a></td>
      <td>{{.Account.CurrencyCode}}</td>
      <td align="right">{{FormatAmount .Account.CurrencyCode .Balance}}</td>
    </tr>
  {{end}}
{{end}}
</table>
</body>
</html>`
)

var (
	kTemplate *template.Template
)

type Handler struct {
	Store    budgetdb.BudgetByIdRunner
	BudgetId int64
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var budget fin.Budget
	if err := h.Store.BudgetById(nil, h.BudgetId, &budget); err != nil {
		http_util.ReportError(w, "Error reading database.", err)
		return
	}
	balances := budget.AccountBalances()
	accounts := budget.Accounts()
	rows := make([]accountView, len(accounts))
	for i := range accounts {
		rows[i] = accountView{
			Account: accounts[i],
			Balance: balances[accounts[i].Id()],
		}
	}
	http_util.WriteTemplate(w, kTemplate, &view{
		Budget:   budget,
		Accounts: rows,
	})
}

type accountView struct {
	Account fin.Account
	Balance int64
}

type view struct {
	common.ListLinker
	Budget   fin.Budget
	Accounts []accountView
}

func init() {
	kTemplate = common.NewTemplate("summary", kTemplateSpec)
}
