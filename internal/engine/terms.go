package engine

import (
	"math"
	"strings"
	"time"

	"ptrs-service/internal/models"
)

// termCodeDays is the single source of truth for payment-term codes. Codes
// are matched case-insensitively after trimming; adding a code is a table
// edit, not new branching.
var termCodeDays = map[string]int{
	"eom":               31,
	"end of next month": 62,
	"immediate":         0,
	"net 7":             7,
	"net 14":            14,
	"net 30":            30,
	"net 60":            60,
}

// TermInput carries the fields the payment-term resolution looks at.
type TermInput struct {
	ContractPoPaymentTerms string
	InvoicePaymentTerms    string
	InvoiceIssueDate       string
	InvoiceDueDate         string
}

// ResolvePaymentTerm resolves the normative payment term in calendar days.
//
// Precedence, first match wins: contract/PO term code, invoice term code,
// due-date minus issue-date rounded up, then the undetermined sentinel (99)
// which must be surfaced for manual entry and never read as zero. An
// unrecognised code falls through to the next source rather than matching.
func ResolvePaymentTerm(in TermInput) int {
	if days, ok := lookupTermCode(in.ContractPoPaymentTerms); ok {
		return days
	}
	if days, ok := lookupTermCode(in.InvoicePaymentTerms); ok {
		return days
	}
	if days, ok := daysBetweenCeil(in.InvoiceIssueDate, in.InvoiceDueDate); ok {
		return days
	}
	return models.PaymentTermUndetermined
}

// ClampPaymentTerm bounds a resolved term to the reportable range [0, 999].
func ClampPaymentTerm(days int) int {
	if days < models.PaymentTermMin {
		return models.PaymentTermMin
	}
	if days > models.PaymentTermMax {
		return models.PaymentTermMax
	}
	return days
}

func lookupTermCode(raw string) (int, bool) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		return 0, false
	}
	days, ok := termCodeDays[code]
	return days, ok
}

// daysBetweenCeil returns the whole calendar days from one ISO date to
// another, rounded up. Missing or unparseable dates report no result.
func daysBetweenCeil(fromDate, toDate string) (int, bool) {
	if fromDate == "" || toDate == "" {
		return 0, false
	}
	from, err := time.Parse(models.DateFormat, fromDate)
	if err != nil {
		return 0, false
	}
	to, err := time.Parse(models.DateFormat, toDate)
	if err != nil {
		return 0, false
	}
	return int(math.Ceil(to.Sub(from).Hours() / 24)), true
}
