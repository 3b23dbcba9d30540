package domain

import "errors"

// Domain errors
var (
	// Lookup errors
	ErrEventNotFound    = errors.New("event not found")
	ErrContractNotFound = errors.New("contract not found")
	ErrRangeNotFound    = errors.New("commission range not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrAddressNotFound  = errors.New("postal code not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotEventOwner    = errors.New("event belongs to another manager")

	// Value errors
	ErrInvalidMoney    = errors.New("invalid money amount")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidStatus   = errors.New("invalid event status")
	ErrInvalidCEP      = errors.New("postal code must have 8 digits")

	// Commission range errors
	ErrInvalidRangeBounds = errors.New("min_tickets must be positive and not greater than max_tickets")
	ErrInvalidPercentage  = errors.New("percentage must be between 0 and 100")
	ErrRangeOverlap       = errors.New("commission range overlaps an active range")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrContractNotFound) ||
		errors.Is(err, ErrRangeNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrAddressNotFound)
}

// IsForbiddenError checks if the error is an authorization error
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrNotEventOwner)
}

// IsValidationError checks if the error is a value or bounds error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidMoney) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidCEP) ||
		errors.Is(err, ErrInvalidRangeBounds) ||
		errors.Is(err, ErrInvalidPercentage) ||
		errors.Is(err, ErrRangeOverlap)
}
