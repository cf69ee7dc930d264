package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	PaymentsErrorBadInput        = "PAYMENTS_BAD_INPUT"
	PaymentsErrorFieldMissing    = "PAYMENTS_FIELD_MISSING"
	PaymentsErrorStoreFailed     = "PAYMENTS_STORE_FAILED"
	PaymentsErrorEmailRejected   = "PAYMENTS_EMAIL_REJECTED"
	PaymentsErrorEmailSendFailed = "PAYMENTS_EMAIL_SEND_FAILED"
	PaymentsErrorInternal        = "PAYMENTS_INTERNAL_ERROR"
)

// NewStoreError wraps a storage backend failure so callers can route on the
// store-failure text code regardless of which backend produced it.
func NewStoreError(err error, operation, table string) *goerrors.Error {
	return ensurePaymentsErrorEnvelope(
		goerrors.Wrap(err, goerrors.CategoryOperation, "record store "+operation+" failed").
			WithTextCode(PaymentsErrorStoreFailed).
			WithMetadata(map[string]any{
				"operation": operation,
				"table":     table,
			}),
	)
}

// NewFieldMissingError reports a lookup that found no row, or a row without
// the requested column.
func NewFieldMissingError(table, field, key string) *goerrors.Error {
	return ensurePaymentsErrorEnvelope(
		goerrors.New("record field not found", goerrors.CategoryNotFound).
			WithTextCode(PaymentsErrorFieldMissing).
			WithMetadata(map[string]any{
				"table": table,
				"field": field,
				"key":   key,
			}),
	)
}

// NewEmailSendError wraps a delivery failure from the email provider.
func NewEmailSendError(err error, recipient string) *goerrors.Error {
	return ensurePaymentsErrorEnvelope(
		goerrors.Wrap(err, goerrors.CategoryOperation, "email delivery failed").
			WithTextCode(PaymentsErrorEmailSendFailed).
			WithMetadata(map[string]any{"recipient": recipient}),
	)
}

// IsFieldMissing reports whether err carries the field-missing text code.
func IsFieldMissing(err error) bool {
	return hasTextCode(err, PaymentsErrorFieldMissing)
}

// IsStoreFailure reports whether err carries the store-failure text code.
func IsStoreFailure(err error) bool {
	return hasTextCode(err, PaymentsErrorStoreFailed)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// NormalizeError coerces any error into the payments error envelope with a
// category, HTTP status, and text code filled in.
func NormalizeError(err error) *goerrors.Error {
	return paymentsErrorMapper(err)
}

func paymentsErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensurePaymentsErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"), strings.Contains(msg, "no rows"):
		return newPaymentsError(err.Error(), goerrors.CategoryNotFound, PaymentsErrorFieldMissing)
	case strings.Contains(msg, "email") && strings.Contains(msg, "invalid"):
		return newPaymentsError(err.Error(), goerrors.CategoryValidation, PaymentsErrorEmailRejected)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return newPaymentsError(err.Error(), goerrors.CategoryBadInput, PaymentsErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensurePaymentsErrorEnvelope(mapped)
}

func newPaymentsError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensurePaymentsErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensurePaymentsErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = paymentsHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultPaymentsTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultPaymentsTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return PaymentsErrorBadInput
	case goerrors.CategoryNotFound:
		return PaymentsErrorFieldMissing
	case goerrors.CategoryOperation:
		return PaymentsErrorStoreFailed
	default:
		return PaymentsErrorInternal
	}
}

func paymentsHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
