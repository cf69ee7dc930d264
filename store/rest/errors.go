package reststore

import (
	goerrors "github.com/goliatone/go-errors"
)

func storeError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode("PAYMENTS_STORE_FAILED")
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func storeWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return storeError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode("PAYMENTS_STORE_FAILED")
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
