package errors

import (
	"context"
	"errors"
	"net/http"

	"rental-search/internal/auth"
	"rental-search/internal/services"
	"rental-search/internal/validators"
	"rental-search/pkg/cache"
)

// ErrForbidden is returned when an authenticated caller lacks the required role.
var ErrForbidden = errors.New("forbidden")

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()
	build := func(userMessage, code string, status int) *AppError {
		return NewAppError(technicalMessage, userMessage, code, status, err)
	}

	switch {
	case errors.Is(err, validators.ErrInvalidQuery):
		return build(MsgInvalidParameters, ErrCodeInvalidParameters, http.StatusBadRequest)
	case errors.Is(err, cache.ErrInvalidPattern):
		return build(MsgInvalidCachePattern, ErrCodeInvalidCachePattern, http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidToken):
		return build(MsgUnauthorized, ErrCodeUnauthorized, http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		return build(MsgForbidden, ErrCodeForbidden, http.StatusForbidden)
	case errors.Is(err, services.ErrSearchUnavailable):
		return build(MsgSearchUnavailable, ErrCodeSearchUnavailable, http.StatusServiceUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return build(MsgRequestTimeout, ErrCodeRequestTimeout, http.StatusGatewayTimeout)
	default:
		return build(MsgInternalError, ErrCodeInternal, http.StatusInternalServerError)
	}
}

// RateLimited is the error rendered for rejected admissions.
func RateLimited() *AppError {
	return NewAppError("rate limit exceeded", MsgRateLimited, ErrCodeRateLimited, http.StatusTooManyRequests, nil)
}
