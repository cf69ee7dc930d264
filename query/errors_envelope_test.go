package query

import (
	"context"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-payment-events/core"
)

func TestGetCustomerEmailMessage_ValidateReturnsRichError(t *testing.T) {
	err := (GetCustomerEmailMessage{}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != core.PaymentsErrorBadInput {
		t.Fatalf("expected %q text code, got %q", core.PaymentsErrorBadInput, rich.TextCode)
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 code, got %d", rich.Code)
	}
}

func TestGetCustomerEmailQuery_NilReaderReturnsRichError(t *testing.T) {
	var q *GetCustomerEmailQuery
	_, err := q.Query(context.Background(), GetCustomerEmailMessage{CustomerID: "cus_1"})
	if err == nil {
		t.Fatalf("expected query dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.PaymentsErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.PaymentsErrorInternal, rich.TextCode)
	}
}
