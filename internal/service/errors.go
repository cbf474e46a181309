package service

import (
	"errors"

	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// upstreamError keeps typed errors from the API client and wraps anything else as
// internal. A not-found reply gets notFound as its message.
func upstreamError(err error, notFound, fallback string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, appErrors.ErrNotFound) && notFound != "" {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, notFound)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fallback)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
