package models

import "errors"

// Sentinel errors for the storefront core. Callers wrap these with
// fmt.Errorf("...: %w", ...) and the HTTP layer classifies with errors.Is.
var (
	// ErrNotFound means a referenced product, cart item, or order does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means a required field is missing or malformed
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInconsistent means the cart references a product the catalog can no
	// longer resolve. Surfaced as a server error: it indicates a data-integrity
	// gap between cart and catalog, not a caller mistake.
	ErrInconsistent = errors.New("inconsistent state")
)
