package errors

import (
	stderrors "errors"
	"net/http"
)

// HTTPStatus maps an error to the response status the API reports for it.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeValidation, ErrCodeAlreadyExists, ErrCodeReference, ErrCodeInactiveUser:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show a client. Internal failures are not described.
func PublicMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Code == ErrCodeInternalError {
		return "internal server error"
	}
	return appErr.Message
}
