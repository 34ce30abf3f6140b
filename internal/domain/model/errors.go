package model

import "errors"

// Validation errors returned by Validate.
var (
	ErrMissingName = errors.New("observation has no entity name")
	ErrMissingYear = errors.New("observation has no year")
	ErrInvalidCode = errors.New("observation has a malformed entity code")
)
