package email

import (
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-payment-events/core"
)

func emailError(message string, category goerrors.Category, code int, metadata map[string]any) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(core.PaymentsErrorEmailSendFailed)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

func emailWrapError(cause error, category goerrors.Category, message string, code int, metadata map[string]any) error {
	err := goerrors.Wrap(cause, category, message).
		WithCode(code).
		WithTextCode(core.PaymentsErrorEmailSendFailed)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}
