package engine

import (
	"time"

	"ptrs-service/internal/models"
)

// CalculatePaymentTime computes the elapsed calendar days from the record's
// regulatory anchor date to the payment date. The anchor is the supply date
// when present, otherwise the invoice issue date (Payment Times Reporting
// Rules s8 definition).
//
// Returns nil when the anchor or the payment date is missing or
// unparseable. A negative result is returned as-is; the issue rules flag it
// as a data-quality problem rather than clamping it.
func CalculatePaymentTime(r *models.PaymentRecord) *int {
	anchor := r.SupplyDate
	if anchor == "" {
		anchor = r.InvoiceIssueDate
	}
	if anchor == "" || r.PaymentDate == "" {
		return nil
	}

	from, err := time.Parse(models.DateFormat, anchor)
	if err != nil {
		return nil
	}
	to, err := time.Parse(models.DateFormat, r.PaymentDate)
	if err != nil {
		return nil
	}

	days := int(to.Sub(from).Hours() / 24)
	return &days
}
