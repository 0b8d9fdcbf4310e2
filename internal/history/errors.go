package history

import "errors"

var (
	// ErrSourceUnavailable wraps every failure to obtain history rows.
	ErrSourceUnavailable = errors.New("history source unavailable")

	// ErrMalformedRow marks a row that carries no usable task or date.
	ErrMalformedRow = errors.New("malformed history row")
)
