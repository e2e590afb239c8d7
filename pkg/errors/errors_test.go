package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "Without cause",
			err:  New(ErrCodeNotFound, "user not found"),
			want: "NOT_FOUND: user not found",
		},
		{
			name: "With cause",
			err:  Wrap(fmt.Errorf("connection reset"), ErrCodeInternalError, "failed to get user"),
			want: "INTERNAL_ERROR: failed to get user (connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := fmt.Errorf("outer: %w", Wrap(cause, ErrCodeAlreadyExists, "duplicate email"))

	if got := CodeOf(wrapped); got != ErrCodeAlreadyExists {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeAlreadyExists)
	}
	if !IsCode(wrapped, ErrCodeAlreadyExists) {
		t.Error("IsCode() = false, want true")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is() should reach the wrapped cause")
	}
	if got := CodeOf(cause); got != "" {
		t.Errorf("CodeOf(plain error) = %q, want empty", got)
	}
	if IsCode(nil, ErrCodeNotFound) {
		t.Error("IsCode(nil) = true, want false")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeValidation, "bad"), 400},
		{New(ErrCodeAlreadyExists, "dup"), 400},
		{New(ErrCodeReference, "ref"), 400},
		{New(ErrCodeInactiveUser, "off"), 400},
		{New(ErrCodeUnauthorized, "who"), 401},
		{New(ErrCodeForbidden, "no"), 403},
		{New(ErrCodeNotFound, "gone"), 404},
		{New(ErrCodeRateLimitExceeded, "slow"), 429},
		{New(ErrCodeInternalError, "boom"), 500},
		{fmt.Errorf("plain"), 500},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(New(ErrCodeNotFound, "user not found")); got != "user not found" {
		t.Errorf("PublicMessage() = %q, want %q", got, "user not found")
	}
	if got := PublicMessage(Wrap(fmt.Errorf("dsn=secret"), ErrCodeInternalError, "failed to get user")); got != "internal server error" {
		t.Errorf("PublicMessage() = %q, want generic message", got)
	}
	if got := PublicMessage(stderrors.New("raw")); got != "internal server error" {
		t.Errorf("PublicMessage() = %q, want generic message", got)
	}
}
