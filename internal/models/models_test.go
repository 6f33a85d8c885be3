package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPaymentRecordClone(t *testing.T) {
	term := 30
	isSb := true
	original := &PaymentRecord{
		ID:            1,
		PaymentAmount: decimal.NewFromInt(100),
		PaymentTerm:   &term,
		IsSb:          &isSb,
	}

	clone := original.Clone()

	*clone.PaymentTerm = 60
	*clone.IsSb = false
	clone.HasExclusion = true

	if *original.PaymentTerm != 30 {
		t.Errorf("Expected clone's term edit not to touch the original, got %d", *original.PaymentTerm)
	}
	if !*original.IsSb {
		t.Errorf("Expected clone's isSb edit not to touch the original")
	}
	if original.HasExclusion {
		t.Errorf("Expected clone's flag edit not to touch the original")
	}
}

func TestPaymentRecordCloneNilPointers(t *testing.T) {
	original := &PaymentRecord{ID: 1}
	clone := original.Clone()

	if clone.PaymentTerm != nil || clone.PaymentTime != nil || clone.IsSb != nil {
		t.Errorf("Expected nil pointers to stay nil on the clone")
	}
}

func TestStatusConstants(t *testing.T) {
	if ReportStatusDraft != "draft" || ReportStatusSubmitted != "submitted" {
		t.Errorf("Unexpected report status constants")
	}
}

func TestPaymentTermBounds(t *testing.T) {
	if PaymentTermMin != 0 || PaymentTermMax != 999 {
		t.Errorf("Unexpected payment term bounds")
	}
	if PaymentTermUndetermined != 99 {
		t.Errorf("Unexpected undetermined sentinel %d", PaymentTermUndetermined)
	}
}
