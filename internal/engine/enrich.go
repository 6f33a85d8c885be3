package engine

import (
	"ptrs-service/internal/models"
)

// EnrichRecords runs the full classification pipeline over a report's
// dataset and returns enriched copies: exclusion rules, system
// recommendations, partial-payment classification, payment term, payment
// time, then issue rules (last, so the negative-payment-time check sees the
// derived value).
//
// The excludedTcp flag combines the rule outcome with the user's explicit
// isTcp choice; the user's choice is never overridden. A record leaves the
// TCP dataset when a rule excludes it or the user opted it out.
func EnrichRecords(records []*models.PaymentRecord, exclusionRules []models.ExclusionRule, issueRules []models.IssueRule) ([]*models.PaymentRecord, error) {
	out, err := ApplyExclusionRules(records, exclusionRules)
	if err != nil {
		return nil, err
	}
	out = ApplySystemRecommendations(out)

	for _, r := range out {
		partial := ClassifyPartialPayment(r.PaymentAmount, r.InvoiceAmount, siblingsOf(r, out))
		r.PartialPayment = partial.PartialPayment

		term := ClampPaymentTerm(ResolvePaymentTerm(TermInput{
			ContractPoPaymentTerms: r.ContractPoPaymentTerms,
			InvoicePaymentTerms:    r.InvoicePaymentTerms,
			InvoiceIssueDate:       r.InvoiceIssueDate,
			InvoiceDueDate:         r.InvoiceDueDate,
		}))
		r.PaymentTerm = &term

		r.PaymentTime = CalculatePaymentTime(r)
		r.ExcludedTcp = r.HasExclusion || !r.IsTcp
	}

	return ApplyIssueRules(out, issueRules), nil
}

// siblingsOf collects the payments sharing the record's invoice reference,
// including the record itself. A record without a reference has no group.
func siblingsOf(r *models.PaymentRecord, dataset []*models.PaymentRecord) []SiblingPayment {
	if r.InvoiceReferenceNumber == "" {
		return nil
	}
	var siblings []SiblingPayment
	for _, other := range dataset {
		if other.InvoiceReferenceNumber == r.InvoiceReferenceNumber {
			siblings = append(siblings, SiblingPayment{
				Amount:                 other.PaymentAmount,
				Date:                   other.PaymentDate,
				InvoiceReferenceNumber: other.InvoiceReferenceNumber,
			})
		}
	}
	return siblings
}
