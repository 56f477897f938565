package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidPattern rejects bulk-invalidation patterns outside [A-Za-z0-9:_-]+ with an optional trailing '*'.
var ErrInvalidPattern = errors.New("invalid cache pattern")

// ErrInvalidTTL rejects writes without a positive expiry.
var ErrInvalidTTL = errors.New("cache entries require a positive ttl")

type CacheError struct {
	Operation string
	Err       error
	Retryable bool
}

func NewCacheError(operation string, err error, retryable bool) *CacheError {
	return &CacheError{
		Operation: operation,
		Err:       err,
		Retryable: retryable,
	}
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache operation %s failed: %v", e.Operation, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a store connectivity failure.
func IsUnavailable(err error) bool {
	var cacheErr *CacheError
	return errors.As(err, &cacheErr) && !errors.Is(err, ErrInvalidPattern) && !errors.Is(err, ErrInvalidTTL)
}
