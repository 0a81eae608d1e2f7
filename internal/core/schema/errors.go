package schema

import "errors"

var (
	ErrUnknownProperty = errors.New("unknown schema property")
	ErrTypeMismatch    = errors.New("value does not match property kind")
)
