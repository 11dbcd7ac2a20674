package llm

import "errors"

// TransientError marks provider failures that are safe to retry:
// network errors, rate limits and 5xx responses. Malformed response
// shapes are deliberately not transient.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err (or anything it wraps) is a
// retryable provider failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
