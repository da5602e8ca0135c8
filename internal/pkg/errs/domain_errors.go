package errs

import "errors"

// Sentinel errors shared by the console layers. Concrete errors are marked with these via Mark.
var (
	// Backend errors
	ErrBackendRequestFailed = errors.New("backend request failed")
	ErrBackendDecodeFailed  = errors.New("backend response could not be decoded")
	ErrPartialCreation      = errors.New("backend created only part of the batch")

	// Voucher errors
	ErrVoucherNotFound = errors.New("voucher not found")

	// Validation errors
	ErrValidation = errors.New("validation error")

	// Preference errors
	ErrPreferenceStoreFailed = errors.New("preference store operation failed")
)
