package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ptrs-service/internal/models"
)

// recommendationBlocklist drives the advisory system recommendation: a
// record whose description or payee name contains one of these keywords is
// suggested for exclusion from the TCP dataset. The suggestion is never
// auto-applied; the user's isTcp choice always wins.
var recommendationBlocklist = []string{
	"wages",
	"salary",
	"payroll",
	"superannuation",
}

// ApplyExclusionRules evaluates the tenant's exclusion rules over every
// record and returns annotated copies with hasExclusion set. Rules are
// evaluated in order and evaluation stops at the first matching rule. A
// rule whose target field the record does not carry is skipped.
func ApplyExclusionRules(records []*models.PaymentRecord, rules []models.ExclusionRule) ([]*models.PaymentRecord, error) {
	for _, rule := range rules {
		if err := ValidateExclusionRule(rule); err != nil {
			return nil, err
		}
	}

	out := make([]*models.PaymentRecord, len(records))
	for i, r := range records {
		c := r.Clone()
		c.HasExclusion = matchesAnyRule(c, rules)
		out[i] = c
	}
	return out, nil
}

// ApplyIssueRules annotates copies of the records with hasIssue: true when
// any rule's condition holds. Issues are advisory and never block saving.
func ApplyIssueRules(records []*models.PaymentRecord, rules []models.IssueRule) []*models.PaymentRecord {
	out := make([]*models.PaymentRecord, len(records))
	for i, r := range records {
		c := r.Clone()
		c.HasIssue = false
		for _, rule := range rules {
			if rule.Condition != nil && rule.Condition(c) {
				c.HasIssue = true
				break
			}
		}
		c.RequiresAttention = c.HasIssue
		out[i] = c
	}
	return out
}

// ApplySystemRecommendations annotates copies of the records with the
// advisory systemRecommendation flag. False means the system suggests
// excluding the record.
func ApplySystemRecommendations(records []*models.PaymentRecord) []*models.PaymentRecord {
	out := make([]*models.PaymentRecord, len(records))
	for i, r := range records {
		c := r.Clone()
		c.SystemRecommendation = !matchesBlocklist(c)
		out[i] = c
	}
	return out
}

// DefaultIssueRules returns the built-in data-completeness checks.
func DefaultIssueRules() []models.IssueRule {
	return []models.IssueRule{
		{
			ID:    "missing-payee-abn",
			Label: "Payee ABN is missing",
			Condition: func(r *models.PaymentRecord) bool {
				return strings.TrimSpace(r.PayeeAbn) == ""
			},
		},
		{
			ID:    "missing-payee-name",
			Label: "Payee entity name is missing",
			Condition: func(r *models.PaymentRecord) bool {
				return strings.TrimSpace(r.PayeeEntityName) == ""
			},
		},
		{
			ID:    "missing-payment-date",
			Label: "Payment date is missing",
			Condition: func(r *models.PaymentRecord) bool {
				return strings.TrimSpace(r.PaymentDate) == ""
			},
		},
		{
			ID:    "negative-payment-time",
			Label: "Payment precedes the supply/issue anchor date",
			Condition: func(r *models.PaymentRecord) bool {
				return r.PaymentTime != nil && *r.PaymentTime < 0
			},
		},
	}
}

// ValidateExclusionRule rejects malformed rule objects. Malformed rules are
// programmer/configuration errors, unlike data-quality anomalies which are
// only ever flagged.
func ValidateExclusionRule(rule models.ExclusionRule) error {
	switch rule.Type {
	case models.MatchExact, models.MatchContains:
		if rule.Field == "" {
			return fmt.Errorf("exclusion rule %d: field is required", rule.ID)
		}
		if _, ok := ruleFieldValue(&models.PaymentRecord{}, rule.Field); !ok {
			return fmt.Errorf("exclusion rule %d: unknown field %q", rule.ID, rule.Field)
		}
		if len(rule.Terms) == 0 {
			return fmt.Errorf("exclusion rule %d: at least one term is required", rule.ID)
		}
	case models.MatchLessThanAndCreditCard:
		if len(rule.Terms) == 0 {
			return fmt.Errorf("exclusion rule %d: a threshold term is required", rule.ID)
		}
		if _, err := decimal.NewFromString(rule.Terms[0]); err != nil {
			return fmt.Errorf("exclusion rule %d: threshold %q is not numeric", rule.ID, rule.Terms[0])
		}
	default:
		return fmt.Errorf("exclusion rule %d: unknown match type %q", rule.ID, rule.Type)
	}
	return nil
}

func matchesAnyRule(r *models.PaymentRecord, rules []models.ExclusionRule) bool {
	for _, rule := range rules {
		if matchesRule(r, rule) {
			return true
		}
	}
	return false
}

func matchesRule(r *models.PaymentRecord, rule models.ExclusionRule) bool {
	switch rule.Type {
	case models.MatchContains:
		value, ok := ruleFieldValue(r, rule.Field)
		if !ok {
			return false
		}
		lower := strings.ToLower(value)
		for _, term := range rule.Terms {
			if term != "" && strings.Contains(lower, strings.ToLower(term)) {
				return true
			}
		}
	case models.MatchExact:
		value, ok := ruleFieldValue(r, rule.Field)
		if !ok {
			return false
		}
		for _, term := range rule.Terms {
			if strings.EqualFold(value, term) {
				return true
			}
		}
	case models.MatchLessThanAndCreditCard:
		threshold, err := decimal.NewFromString(rule.Terms[0])
		if err != nil {
			return false
		}
		return r.CreditCardPayment && r.PaymentAmount.LessThan(threshold)
	}
	return false
}

// ruleFieldValue resolves a rule's target field to its string value. The
// second return reports whether the field name is one the rules may target.
func ruleFieldValue(r *models.PaymentRecord, field string) (string, bool) {
	switch field {
	case "description":
		return r.Description, true
	case "payeeEntityName":
		return r.PayeeEntityName, true
	case "payeeAbn":
		return r.PayeeAbn, true
	case "payeeAcnArbn":
		return r.PayeeAcnArbn, true
	case "payerEntityName":
		return r.PayerEntityName, true
	case "payerAbn":
		return r.PayerAbn, true
	case "invoiceReferenceNumber":
		return r.InvoiceReferenceNumber, true
	case "contractPoPaymentTerms":
		return r.ContractPoPaymentTerms, true
	case "invoicePaymentTerms":
		return r.InvoicePaymentTerms, true
	case "paymentAmount":
		return r.PaymentAmount.String(), true
	default:
		return "", false
	}
}

func matchesBlocklist(r *models.PaymentRecord) bool {
	description := strings.ToLower(r.Description)
	payee := strings.ToLower(r.PayeeEntityName)
	for _, keyword := range recommendationBlocklist {
		if strings.Contains(description, keyword) || strings.Contains(payee, keyword) {
			return true
		}
	}
	return false
}
