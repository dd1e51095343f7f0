package news

import (
	"errors"
	"fmt"
)

// Kind classifies router failures. Every kind reaches HTTP callers as a 500.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindUpstream      Kind = "upstream"
	KindConnectivity  Kind = "connectivity"
	KindRequestSetup  Kind = "request_setup"
)

// Error is the single failure value returned by Router.Fetch.
type Error struct {
	Kind    Kind
	Status  int // upstream HTTP status, KindUpstream only
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" when err is not a router error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func configurationError(envName string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: fmt.Sprintf("%s environment variable is not set", envName),
	}
}

func upstreamError(status int, message string, cause error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Status:  status,
		Message: fmt.Sprintf("News API error: %d - %s", status, message),
		Err:     cause,
	}
}

func connectivityError(cause error) *Error {
	return &Error{
		Kind:    KindConnectivity,
		Message: "No response from News API. Please check your network connection.",
		Err:     cause,
	}
}

func requestSetupError(cause error) *Error {
	return &Error{
		Kind:    KindRequestSetup,
		Message: fmt.Sprintf("Error setting up request: %v", cause),
		Err:     cause,
	}
}
