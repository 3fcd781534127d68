package catview

import (
	"html/template"
	"net/http"

	"github.com/keep94/appcommon/date_util"
	"github.com/keep94/appcommon/http_util"
	"github.com/keep94/budget/apps/budgetapp/common"
	"github.com/keep94/budget/fin"
	"github.com/keep94/budget/fin/budgetdb"
	"github.com/keep94/budget/pdate"
)

var (
	kTemplateSpec = `
<html>
<head>
  <title>Categories</title>
</head>
<body>
<h2>Categories on {{FormatDate .Date}}</h2>
<a href="/budget/">Summary</a><br><br>
<form method="GET" action="/budget/categories">
  <input type="text" name="date" value="{{.Date}}">
  <input type="submit" value="Go">
</form>
<table border=1>
  <tr>
    <td>Group</td>
    <td>Category</td>
    <td>Spent</td>
    <td>Budgeted</td>
  </tr>
  {{range .Rows}}
    <tr>
      <td>{{.GroupName}}</td>
      <td>{{.Category.Name}}</td>
      <td align="right">{{FormatAmount .Category.CurrencyCode .Balance}}</td>
      <td align="right">{{FormatAmount .Category.CurrencyCode .Budgeted}}</td>
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
	Clock    date_util.Clock
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var budget fin.Budget
	if err := h.Store.BudgetById(nil, h.BudgetId, &budget); err != nil {
		http_util.ReportError(w, "Error reading database.", err)
		return
	}
	r.ParseForm()
	date := common.ToDate(date_util.TimeToDate(h.Clock.Now()))
	if dateStr := r.Form.Get("date"); dateStr != "" {
		if parsed, err := pdate.Parse(dateStr); err == nil {
			date = parsed
		}
	}
	date = common.ClampToBudget(budget, date)
	balances := budget.CategoryBalancesOnDate(date)
	budgeted := budget.CategoryBudgetsOnDate(date)
	categories := budget.Categories()
	rows := make([]row, len(categories))
	for i := range categories {
		group, _ := budget.CategoryGroupById(categories[i].GroupId())
		rows[i] = row{
			GroupName: group.Name(),
			Category:  categories[i],
			Balance:   balances[categories[i].Id()],
			Budgeted:  budgeted[categories[i].Id()],
		}
	}
	http_util.WriteTemplate(w, kTemplate, &view{
		Date: date,
		Rows: rows,
	})
}

type row struct {
	GroupName string
	Category  fin.Category
	Balance   int64
	Budgeted  int64
}

type view struct {
	Date pdate.Date
	Rows []row
}

func init() {
	kTemplate = common.NewTemplate("catview", kTemplateSpec)
}
