package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SiblingPayment is one payment of an invoice's payment group. Callers must
// include the payment under test in the slice they pass in.
type SiblingPayment struct {
	Amount                 decimal.Decimal `json:"amount"`
	Date                   string          `json:"date"`
	InvoiceReferenceNumber string          `json:"invoice_reference_number"`
}

// PartialResult is the classification of a single payment against its
// invoice group.
type PartialResult struct {
	PartialPayment         bool   `json:"partial_payment"`
	InvoiceReferenceNumber string `json:"invoice_reference_number"`
}

// ClassifyPartialPayment decides whether a payment is partial or fully
// discharges its invoice.
//
// Payments are grouped by invoice reference number; payments without a
// reference are never grouped and fall back to the single-payment rule.
// Within a multi-payment group the payments are walked in date order
// accumulating a running total: the payment at which the running total first
// equals the invoice amount discharges the invoice, but only when it is also
// the last payment of the sequence and its amount is the amount under test.
// Every other payment of a multi-payment group is partial. When no prefix of
// the group sums to the invoice amount exactly (over- or underpayment), the
// single-payment rule applies: partial iff paymentAmount < invoiceAmount.
//
// Amount comparisons are exact decimal comparisons at cent scale, never
// float equality.
func ClassifyPartialPayment(paymentAmount, invoiceAmount decimal.Decimal, siblings []SiblingPayment) PartialResult {
	groupRefs, groups := groupByReference(siblings)

	for _, ref := range groupRefs {
		group := groups[ref]
		if !containsAmount(group, paymentAmount) {
			continue
		}

		if len(group) == 1 {
			return PartialResult{
				PartialPayment:         paymentAmount.LessThan(invoiceAmount),
				InvoiceReferenceNumber: ref,
			}
		}

		sorted := make([]SiblingPayment, len(group))
		copy(sorted, group)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date < sorted[j].Date
		})

		running := decimal.Zero
		for i, p := range sorted {
			running = running.Add(p.Amount)
			if running.Equal(invoiceAmount) {
				last := i == len(sorted)-1
				if last && p.Amount.Equal(paymentAmount) {
					return PartialResult{PartialPayment: false, InvoiceReferenceNumber: ref}
				}
				return PartialResult{PartialPayment: true, InvoiceReferenceNumber: ref}
			}
		}

		// No prefix reached the invoice amount exactly
		return PartialResult{
			PartialPayment:         paymentAmount.LessThan(invoiceAmount),
			InvoiceReferenceNumber: ref,
		}
	}

	// No matching group: the payment is evaluated on its own
	return PartialResult{
		PartialPayment:         paymentAmount.LessThan(invoiceAmount),
		InvoiceReferenceNumber: "",
	}
}

// groupByReference buckets payments by invoice reference, preserving the
// order in which references are first seen. Unreferenced payments are
// dropped from grouping.
func groupByReference(siblings []SiblingPayment) ([]string, map[string][]SiblingPayment) {
	var refs []string
	groups := make(map[string][]SiblingPayment)
	for _, p := range siblings {
		if p.InvoiceReferenceNumber == "" {
			continue
		}
		if _, ok := groups[p.InvoiceReferenceNumber]; !ok {
			refs = append(refs, p.InvoiceReferenceNumber)
		}
		groups[p.InvoiceReferenceNumber] = append(groups[p.InvoiceReferenceNumber], p)
	}
	return refs, groups
}

func containsAmount(group []SiblingPayment, amount decimal.Decimal) bool {
	for _, p := range group {
		if p.Amount.Equal(amount) {
			return true
		}
	}
	return false
}
