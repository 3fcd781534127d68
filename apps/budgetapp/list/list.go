package list

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/keep94/appcommon/http_util"
	"github.com/keep94/budget/apps/budgetapp/common"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
	"github.com/keep94/budget/fin/filters"
	"github.com/keep94/budget/pdate"
)

const (
	kMaxRows = 500
)

var (
	kTemplateSpec = `
<html>
<head>
  <title>Transactions</title>
</head>
<body>
<h2>Transactions</h2>
<a href="/budget/">Summary</a><br><br>
<form method="GET" action="/budget/list">
  Who: <input type="text" name="who" value="{{.Who}}">
  <input type="submit" value="Search">
</form>
<table border=1>
  <tr>
    <td>Date</td>
    <td>Who</td>
    <td>Amount</td>
    <td>Balance</td>
  </tr>
  {{range .Rows}}
    <tr>
      <td>{{if .HasDate}}{{FormatDate .Date}}{{end}}</td>
      <td>{{.Txn.Who}}{{if .Txn.Pending}} (pending){{end}}</td>
      <td align="right">{{FormatAmount $.CurrencyCode .Txn.Total}}</td>
      <td align="right">{{if .HasBalance}}{{FormatAmountRaw $.CurrencyCode .Balance}}{{end}}</td>
    </tr>
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
	r.ParseForm()
	who := r.Form.Get("who")
	acctId, _ := strconv.ParseInt(r.Form.Get("acctId"), 10, 64)
	filter := filters.CompileAdvanceSearchSpec(
		&filters.AdvanceSearchSpec{Who: who})
	var rows []row
	for _, txn := range budget.Transactions() {
		if len(rows) == kMaxRows {
			break
		}
		if acctId != 0 && txn.AccountId() != acctId {
			continue
		}
		t := txn
		if !filter(&t) {
			continue
		}
		item := row{Txn: t}
		item.Date, item.HasDate = t.Date()
		if acctId != 0 {
			item.Balance, item.HasBalance =
				budget.AccountBalanceAsOfTransaction(t.Id(), acctId)
		}
		rows = append(rows, item)
	}
	http_util.WriteTemplate(w, kTemplate, &view{
		Who:          who,
		CurrencyCode: budget.CurrencyCode(),
		Rows:         rows,
	})
}

type row struct {
	Txn        fin.Transaction
	Date       pdate.Date
	HasDate    bool
	Balance    int64
	HasBalance bool
}

type view struct {
	common.ListLinker
	Who          string
	CurrencyCode string
	Rows         []row
}

func init() {
	kTemplate = common.NewTemplate("list", kTemplateSpec)
}
