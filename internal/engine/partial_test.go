package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestClassifyPartialPaymentSinglePayment(t *testing.T) {
	result := ClassifyPartialPayment(d("80"), d("100"), []SiblingPayment{
		{Amount: d("80"), Date: "2024-01-01", InvoiceReferenceNumber: "INV-1"},
	})

	if !result.PartialPayment {
		t.Errorf("Expected partial payment for 80 against invoice of 100")
	}
	if result.InvoiceReferenceNumber != "INV-1" {
		t.Errorf("Expected invoice reference 'INV-1', got '%s'", result.InvoiceReferenceNumber)
	}
}

func TestClassifyPartialPaymentSingleFullDischarge(t *testing.T) {
	result := ClassifyPartialPayment(d("100"), d("100"), []SiblingPayment{
		{Amount: d("100"), Date: "2024-01-01", InvoiceReferenceNumber: "INV-2"},
	})

	if result.PartialPayment {
		t.Errorf("Expected full discharge for payment equal to invoice amount")
	}
}

func TestClassifyPartialPaymentMultiPaymentDischarge(t *testing.T) {
	// Invoice INV-1015 for $20,000 paid as $5,000 then $15,000
	siblings := []SiblingPayment{
		{Amount: d("5000"), Date: "2024-01-01", InvoiceReferenceNumber: "INV-1015"},
		{Amount: d("15000"), Date: "2024-01-15", InvoiceReferenceNumber: "INV-1015"},
	}

	first := ClassifyPartialPayment(d("5000"), d("20000"), siblings)
	if !first.PartialPayment {
		t.Errorf("Expected the $5,000 payment to be partial")
	}

	second := ClassifyPartialPayment(d("15000"), d("20000"), siblings)
	if second.PartialPayment {
		t.Errorf("Expected the final $15,000 payment to discharge the invoice")
	}
	if second.InvoiceReferenceNumber != "INV-1015" {
		t.Errorf("Expected invoice reference 'INV-1015', got '%s'", second.InvoiceReferenceNumber)
	}
}

func TestClassifyPartialPaymentOutOfOrderSiblings(t *testing.T) {
	// Same group as above with siblings supplied newest-first; the walk
	// must sort by date before accumulating
	siblings := []SiblingPayment{
		{Amount: d("15000"), Date: "2024-01-15", InvoiceReferenceNumber: "INV-1015"},
		{Amount: d("5000"), Date: "2024-01-01", InvoiceReferenceNumber: "INV-1015"},
	}

	result := ClassifyPartialPayment(d("15000"), d("20000"), siblings)
	if result.PartialPayment {
		t.Errorf("Expected the date-ordered last payment to discharge the invoice")
	}
}

func TestClassifyPartialPaymentOverpaymentFallback(t *testing.T) {
	// 12,000 + 10,000 never sums to exactly 20,000, so each payment falls
	// back to the single-payment rule
	siblings := []SiblingPayment{
		{Amount: d("12000"), Date: "2024-01-01", InvoiceReferenceNumber: "INV-7"},
		{Amount: d("10000"), Date: "2024-01-20", InvoiceReferenceNumber: "INV-7"},
	}

	result := ClassifyPartialPayment(d("12000"), d("20000"), siblings)
	if !result.PartialPayment {
		t.Errorf("Expected fallback rule to classify 12000 < 20000 as partial")
	}
}

func TestClassifyPartialPaymentExactTotalMidSequence(t *testing.T) {
	// The cumulative total reaches the invoice amount at the second of
	// three payments; not last in sequence, so still partial
	siblings := []SiblingPayment{
		{Amount: d("10000"), Date: "2024-01-01", InvoiceReferenceNumber: "INV-9"},
		{Amount: d("10000"), Date: "2024-01-10", InvoiceReferenceNumber: "INV-9"},
		{Amount: d("500"), Date: "2024-01-20", InvoiceReferenceNumber: "INV-9"},
	}

	result := ClassifyPartialPayment(d("10000"), d("20000"), siblings)
	if !result.PartialPayment {
		t.Errorf("Expected mid-sequence exact total to remain partial")
	}
}

func TestClassifyPartialPaymentNoSiblings(t *testing.T) {
	result := ClassifyPartialPayment(d("50"), d("100"), nil)

	if !result.PartialPayment {
		t.Errorf("Expected fallback rule with no siblings")
	}
	if result.InvoiceReferenceNumber != "" {
		t.Errorf("Expected empty invoice reference, got '%s'", result.InvoiceReferenceNumber)
	}
}

func TestClassifyPartialPaymentUnreferencedSiblingsIgnored(t *testing.T) {
	siblings := []SiblingPayment{
		{Amount: d("100"), Date: "2024-01-01", InvoiceReferenceNumber: ""},
		{Amount: d("100"), Date: "2024-01-02", InvoiceReferenceNumber: ""},
	}

	result := ClassifyPartialPayment(d("100"), d("100"), siblings)
	if result.PartialPayment {
		t.Errorf("Expected unreferenced payment to be evaluated independently")
	}
	if result.InvoiceReferenceNumber != "" {
		t.Errorf("Expected empty invoice reference, got '%s'", result.InvoiceReferenceNumber)
	}
}

func TestClassifyPartialPaymentCentExactComparison(t *testing.T) {
	// 0.10 + 0.20 must equal 0.30 exactly; float accumulation would miss
	siblings := []SiblingPayment{
		{Amount: d("0.10"), Date: "2024-01-01", InvoiceReferenceNumber: "INV-C"},
		{Amount: d("0.20"), Date: "2024-01-02", InvoiceReferenceNumber: "INV-C"},
	}

	result := ClassifyPartialPayment(d("0.20"), d("0.30"), siblings)
	if result.PartialPayment {
		t.Errorf("Expected cent-exact cumulative total to discharge the invoice")
	}
}
