package fin

// IssueType is the severity of a validation issue.
type IssueType int

const (
	Error IssueType = iota
	Warning
)

func (t IssueType) String() string {
	switch t {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Issue is a single validation message. Field is the name of the field
// the issue is about, or "" if the issue concerns the record overall.
type Issue struct {
	Type    IssueType
	Field   string
	Message string
}

// ValidationResult collects validation issues in insertion order.
type ValidationResult struct {
	issues []Issue
}

// Errors returns the issues of type Error.
func (r *ValidationResult) Errors() []Issue {
	return r.byType(Error)
}

// Warnings returns the issues of type Warning.
func (r *ValidationResult) Warnings() []Issue {
	return r.byType(Warning)
}

// HasErrors returns true if at least one issue is an Error.
func (r *ValidationResult) HasErrors() bool {
	for i := range r.issues {
		if r.issues[i].Type == Error {
			return true
		}
	}
	return false
}

// FieldIssues returns the issues about the named field.
func (r *ValidationResult) FieldIssues(field string) []Issue {
	var result []Issue
	for i := range r.issues {
		if r.issues[i].Field == field {
			result = append(result, r.issues[i])
		}
	}
	return result
}

// OverallIssues returns the issues not tied to any field.
func (r *ValidationResult) OverallIssues() []Issue {
	return r.FieldIssues("")
}

// AllIssues returns every issue in insertion order.
func (r *ValidationResult) AllIssues() []Issue {
	result := make([]Issue, len(r.issues))
	copy(result, r.issues)
	return result
}

func (r *ValidationResult) add(issue Issue) {
	r.issues = append(r.issues, issue)
}

func (r *ValidationResult) byType(t IssueType) []Issue {
	var result []Issue
	for i := range r.issues {
		if r.issues[i].Type == t {
			result = append(result, r.issues[i])
		}
	}
	return result
}

// ValidationContext gives a record read-only access to the budget it is
// validated against and collects the issues it reports.
type ValidationContext struct {
	budget Budget
	result *ValidationResult
}

// Budget returns the budget being validated against.
func (c *ValidationContext) Budget() Budget {
	return c.budget
}

// AddError reports an error about the named field. Pass "" for issues
// about the record overall.
func (c *ValidationContext) AddError(field, message string) {
	c.result.add(Issue{Type: Error, Field: field, Message: message})
}

// AddWarning reports a warning about the named field. Pass "" for
// issues about the record overall.
func (c *ValidationContext) AddWarning(field, message string) {
	c.result.add(Issue{Type: Warning, Field: field, Message: message})
}

// ValidateForBudget reports the soft issues of this transaction in the
// context of budget. Issues never prevent the transaction from being
// stored.
func (t Transaction) ValidateForBudget(budget Budget) *ValidationResult {
	result := &ValidationResult{}
	t.validate(&ValidationContext{budget: budget, result: result})
	return result
}

// AssertIsValidForBudget returns an error if validating this
// transaction against budget reports any issue of type Error. Warnings
// are ignored.
func (t Transaction) AssertIsValidForBudget(budget Budget) error {
	result := t.ValidateForBudget(budget)
	if result.HasErrors() {
		return &ValidationError{Issues: result.Errors()}
	}
	return nil
}

func (t Transaction) validate(ctx *ValidationContext) {
	nonZero := t.Total() != 0
	if !t.pending && nonZero && t.accountId == 0 {
		ctx.AddWarning("accountId", "transaction has no account")
	}
	var account Account
	var haveAccount bool
	if t.accountId != 0 {
		account, haveAccount = ctx.Budget().AccountById(t.accountId)
	}
	for i := range t.details {
		detail := &t.details[i]
		if detail.categoryId == 0 {
			if !t.pending && nonZero && !t.transfer {
				ctx.AddWarning("detail", "detail has no category")
			}
			continue
		}
		category, ok := ctx.Budget().CategoryById(detail.categoryId)
		if !ok {
			ctx.AddError("detail", "detail references an unknown category")
			continue
		}
		if haveAccount && category.CurrencyCode() != account.CurrencyCode() {
			ctx.AddError(
				"detail",
				"detail category currency differs from account currency")
		}
	}
}

// ValidationError wraps the Error issues of a failed
// AssertIsValidForBudget call.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "fin: validation failed"
	}
	return "fin: " + e.Issues[0].Message
}
