package engine

import (
	"testing"

	"ptrs-service/internal/models"
)

func TestCalculatePaymentTimeFromSupplyDate(t *testing.T) {
	r := &models.PaymentRecord{
		SupplyDate:       "2024-01-01",
		InvoiceIssueDate: "2024-01-10",
		PaymentDate:      "2024-01-31",
	}

	days := CalculatePaymentTime(r)
	if days == nil {
		t.Fatalf("Expected a payment time, got nil")
	}
	if *days != 30 {
		t.Errorf("Expected 30 days from supply date, got %d", *days)
	}
}

func TestCalculatePaymentTimeIssueDateFallback(t *testing.T) {
	r := &models.PaymentRecord{
		InvoiceIssueDate: "2024-01-10",
		PaymentDate:      "2024-01-31",
	}

	days := CalculatePaymentTime(r)
	if days == nil {
		t.Fatalf("Expected a payment time, got nil")
	}
	if *days != 21 {
		t.Errorf("Expected 21 days from invoice issue date, got %d", *days)
	}
}

func TestCalculatePaymentTimeMissingAnchor(t *testing.T) {
	r := &models.PaymentRecord{PaymentDate: "2024-01-31"}
	if days := CalculatePaymentTime(r); days != nil {
		t.Errorf("Expected nil without an anchor date, got %d", *days)
	}
}

func TestCalculatePaymentTimeMissingPaymentDate(t *testing.T) {
	r := &models.PaymentRecord{SupplyDate: "2024-01-01"}
	if days := CalculatePaymentTime(r); days != nil {
		t.Errorf("Expected nil without a payment date, got %d", *days)
	}
}

func TestCalculatePaymentTimeNegativeNotClamped(t *testing.T) {
	// Payment before supply is a data-quality problem the issue rules
	// flag; the raw negative difference must survive
	r := &models.PaymentRecord{
		SupplyDate:  "2024-02-01",
		PaymentDate: "2024-01-22",
	}

	days := CalculatePaymentTime(r)
	if days == nil {
		t.Fatalf("Expected a payment time, got nil")
	}
	if *days != -10 {
		t.Errorf("Expected -10 days, got %d", *days)
	}
}
