package engine

import (
	"testing"

	"ptrs-service/internal/models"
)

func TestResolvePaymentTermContractPrecedence(t *testing.T) {
	// Contract term wins outright even when every other source is present
	days := ResolvePaymentTerm(TermInput{
		ContractPoPaymentTerms: "EOM",
		InvoicePaymentTerms:    "NET 30",
		InvoiceIssueDate:       "2024-01-01",
		InvoiceDueDate:         "2024-01-31",
	})
	if days != 31 {
		t.Errorf("Expected 31 for contract term EOM, got %d", days)
	}
}

func TestResolvePaymentTermCodes(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"EOM", 31},
		{"eom", 31},
		{"  End of Next Month  ", 62},
		{"immediate", 0},
		{"NET 7", 7},
		{"net 14", 14},
		{"Net 30", 30},
		{"NET 60", 60},
	}

	for _, tt := range tests {
		days := ResolvePaymentTerm(TermInput{ContractPoPaymentTerms: tt.code})
		if days != tt.want {
			t.Errorf("Code %q: expected %d, got %d", tt.code, tt.want, days)
		}
	}
}

func TestResolvePaymentTermUnrecognisedCodeFallsThrough(t *testing.T) {
	days := ResolvePaymentTerm(TermInput{
		ContractPoPaymentTerms: "NET 45",
		InvoicePaymentTerms:    "NET 30",
	})
	if days != 30 {
		t.Errorf("Expected unrecognised contract code to fall through to invoice terms, got %d", days)
	}
}

func TestResolvePaymentTermDateFallback(t *testing.T) {
	days := ResolvePaymentTerm(TermInput{
		InvoiceIssueDate: "2024-07-01",
		InvoiceDueDate:   "2024-07-31",
	})
	if days != 30 {
		t.Errorf("Expected 30 days between issue and due date, got %d", days)
	}
}

func TestResolvePaymentTermUndetermined(t *testing.T) {
	days := ResolvePaymentTerm(TermInput{})
	if days != models.PaymentTermUndetermined {
		t.Errorf("Expected undetermined sentinel %d, got %d", models.PaymentTermUndetermined, days)
	}
}

func TestResolvePaymentTermInvalidDatesUndetermined(t *testing.T) {
	days := ResolvePaymentTerm(TermInput{
		InvoiceIssueDate: "01/07/2024",
		InvoiceDueDate:   "31/07/2024",
	})
	if days != models.PaymentTermUndetermined {
		t.Errorf("Expected unparseable dates to resolve to the sentinel, got %d", days)
	}
}

func TestClampPaymentTerm(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 0},
		{0, 0},
		{30, 30},
		{999, 999},
		{1200, 999},
	}

	for _, tt := range tests {
		if got := ClampPaymentTerm(tt.in); got != tt.want {
			t.Errorf("ClampPaymentTerm(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
