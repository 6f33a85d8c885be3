package engine

import (
	"testing"

	"ptrs-service/internal/models"
)

func TestEnrichRecordsFullPipeline(t *testing.T) {
	records := []*models.PaymentRecord{
		{
			ID:                     1,
			InvoiceReferenceNumber: "INV-1015",
			PayeeEntityName:        "Widget Supplies",
			PayeeAbn:               "12345678901",
			PaymentAmount:          d("5000"),
			InvoiceAmount:          d("20000"),
			SupplyDate:             "2023-12-20",
			PaymentDate:            "2024-01-01",
			InvoiceIssueDate:       "2023-12-22",
			InvoiceDueDate:         "2024-01-21",
			ContractPoPaymentTerms: "NET 30",
			IsTcp:                  true,
		},
		{
			ID:                     2,
			InvoiceReferenceNumber: "INV-1015",
			PayeeEntityName:        "Widget Supplies",
			PayeeAbn:               "12345678901",
			PaymentAmount:          d("15000"),
			InvoiceAmount:          d("20000"),
			SupplyDate:             "2023-12-20",
			PaymentDate:            "2024-01-15",
			ContractPoPaymentTerms: "NET 30",
			IsTcp:                  true,
		},
	}

	out, err := EnrichRecords(records, nil, DefaultIssueRules())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !out[0].PartialPayment {
		t.Errorf("Expected the first payment of the group to be partial")
	}
	if out[1].PartialPayment {
		t.Errorf("Expected the final payment to discharge the invoice")
	}

	for _, r := range out {
		if r.PaymentTerm == nil || *r.PaymentTerm != 30 {
			t.Errorf("Record %d: expected payment term 30, got %v", r.ID, r.PaymentTerm)
		}
	}

	if out[0].PaymentTime == nil || *out[0].PaymentTime != 12 {
		t.Errorf("Expected payment time 12 for the first payment, got %v", out[0].PaymentTime)
	}
	if out[1].PaymentTime == nil || *out[1].PaymentTime != 26 {
		t.Errorf("Expected payment time 26 for the second payment, got %v", out[1].PaymentTime)
	}

	// Inputs stay untouched
	if records[0].PaymentTerm != nil || records[0].PartialPayment {
		t.Errorf("Expected input records to stay unmodified")
	}
}

func TestEnrichRecordsExcludedTcpCombinesRuleAndUserChoice(t *testing.T) {
	records := []*models.PaymentRecord{
		{ID: 1, Description: "payroll run", IsTcp: true, PayeeAbn: "12345678901", PayeeEntityName: "X", PaymentDate: "2024-01-01"},
		{ID: 2, Description: "parts", IsTcp: false, TcpExclusionComment: "intra-group", PayeeAbn: "12345678901", PayeeEntityName: "X", PaymentDate: "2024-01-01"},
		{ID: 3, Description: "parts", IsTcp: true, PayeeAbn: "12345678901", PayeeEntityName: "X", PaymentDate: "2024-01-01"},
	}
	rules := []models.ExclusionRule{
		{ID: 1, Field: "description", Type: models.MatchContains, Terms: []string{"payroll"}},
	}

	out, err := EnrichRecords(records, rules, DefaultIssueRules())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !out[0].ExcludedTcp {
		t.Errorf("Expected rule-excluded record to leave the TCP dataset")
	}
	if !out[1].ExcludedTcp {
		t.Errorf("Expected user-opted-out record to leave the TCP dataset")
	}
	if out[2].ExcludedTcp {
		t.Errorf("Expected ordinary record to stay in the TCP dataset")
	}
}

func TestEnrichRecordsNegativePaymentTimeFlagged(t *testing.T) {
	records := []*models.PaymentRecord{
		{
			ID:              1,
			PayeeEntityName: "X",
			PayeeAbn:        "12345678901",
			SupplyDate:      "2024-02-01",
			PaymentDate:     "2024-01-15",
			IsTcp:           true,
		},
	}

	out, err := EnrichRecords(records, nil, DefaultIssueRules())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if out[0].PaymentTime == nil || *out[0].PaymentTime >= 0 {
		t.Fatalf("Expected a negative payment time, got %v", out[0].PaymentTime)
	}
	if !out[0].HasIssue {
		t.Errorf("Expected the negative payment time to raise an issue")
	}
}

func TestEnrichRecordsUndeterminedTermSentinel(t *testing.T) {
	records := []*models.PaymentRecord{
		{ID: 1, PayeeEntityName: "X", PayeeAbn: "12345678901", PaymentDate: "2024-01-01", IsTcp: true},
	}

	out, err := EnrichRecords(records, nil, DefaultIssueRules())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if out[0].PaymentTerm == nil || *out[0].PaymentTerm != models.PaymentTermUndetermined {
		t.Errorf("Expected undetermined sentinel, got %v", out[0].PaymentTerm)
	}
}
