package voucher

import (
	"errors"
	"strconv"
	"strings"
)

const (
	MinQuantity = 1
	MaxQuantity = 100
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a whole number between 1 and 100")
	ErrInvalidDuration  = errors.New("duration is not one of the offered options")
	ErrInvalidDataLimit = errors.New("data limit is not one of the offered options")
)

// ParseQuantity validates the quantity form value. The original string is what gets sent.
func ParseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinQuantity || n > MaxQuantity {
		return 0, ErrInvalidQuantity
	}
	return n, nil
}

// ValidateBatch checks a generation request before it is sent.
func ValidateBatch(quantity, duration, dataLimit string) error {
	if _, err := ParseQuantity(quantity); err != nil {
		return err
	}
	if !IsDurationOption(duration) {
		return ErrInvalidDuration
	}
	if !IsDataLimitOption(dataLimit) {
		return ErrInvalidDataLimit
	}
	return nil
}
