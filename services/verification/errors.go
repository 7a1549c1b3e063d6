package verification

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// AuthenticationError means the provider rejected our credentials. It is an
// operational failure, never retried and never converted into a per-ticket
// decision.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authenticationError: %s", e.Message)
}

func NewAuthenticationError(msg string) error {
	return &AuthenticationError{Message: msg}
}

// TimeoutError wraps a timeout on a token or booking call. Eligible for
// bounded retry.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeoutError: %s: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is timeout-class: our wrapper, a net error
// that timed out, or a context deadline.
func IsTimeout(err error) bool {
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsAuthentication reports whether err is a credential failure.
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
