package core

import (
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestNormalizeErrorKeepsRichErrors(t *testing.T) {
	original := NewFieldMissingError("stripe_customer_data", "email", "cus_1")

	mapped := NormalizeError(original)
	if mapped.TextCode != PaymentsErrorFieldMissing {
		t.Fatalf("text code = %q", mapped.TextCode)
	}
	if mapped.Code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", mapped.Code)
	}
}

func TestNormalizeErrorClassifiesPlainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{errors.New("row not found"), PaymentsErrorFieldMissing},
		{errors.New("recipient email is invalid"), PaymentsErrorEmailRejected},
		{errors.New("customer id is required"), PaymentsErrorBadInput},
	}
	for _, tc := range cases {
		mapped := NormalizeError(tc.err)
		if mapped == nil || mapped.TextCode != tc.code {
			t.Fatalf("NormalizeError(%v) = %+v, want text code %q", tc.err, mapped, tc.code)
		}
	}
}

func TestNormalizeErrorNil(t *testing.T) {
	if NormalizeError(nil) != nil {
		t.Fatal("NormalizeError(nil) != nil")
	}
}

func TestStoreErrorEnvelope(t *testing.T) {
	err := NewStoreError(errors.New("dial tcp refused"), "find", "stripe_customer_data")

	if err.TextCode != PaymentsErrorStoreFailed {
		t.Fatalf("text code = %q", err.TextCode)
	}
	if err.Category != goerrors.CategoryOperation {
		t.Fatalf("category = %v", err.Category)
	}
	if !IsStoreFailure(err) {
		t.Fatal("IsStoreFailure() = false")
	}
	if IsFieldMissing(err) {
		t.Fatal("IsFieldMissing() = true for store failure")
	}
}

func TestEmailSendErrorEnvelope(t *testing.T) {
	err := NewEmailSendError(errors.New("provider down"), "a@b.com")

	if err.TextCode != PaymentsErrorEmailSendFailed {
		t.Fatalf("text code = %q", err.TextCode)
	}
	if err.Metadata["recipient"] != "a@b.com" {
		t.Fatalf("metadata = %v", err.Metadata)
	}
}

func TestTextCodeHelpersOnWrappedErrors(t *testing.T) {
	wrapped := goerrors.Wrap(
		NewFieldMissingError("stripe_plink_cache", "payment_link", "a@b.com"),
		goerrors.CategoryOperation,
		"attach failed",
	)

	// The inner text code survives the wrap so callers can still route on it.
	if !IsFieldMissing(wrapped) {
		t.Fatal("IsFieldMissing() = false through outer wrap")
	}
	if IsStoreFailure(wrapped) {
		t.Fatal("IsStoreFailure() = true for field-missing error")
	}
}
