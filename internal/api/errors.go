package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureKind classifies why a refresh failed. The scheduler only ever sees
// one failure per refresh; the kind tells operators whether the problem is
// the network, the API, or their configuration.
type FailureKind string

const (
	FailureConnection      FailureKind = "connection_error"
	FailureAPI             FailureKind = "api_error"
	FailureVehicleNotFound FailureKind = "vehicle_not_found"
	FailureUnknown         FailureKind = "unknown"
)

// Error is the single error type returned by Client for fatal failures.
type Error struct {
	Kind   FailureKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain, collapsing anything
// unclassified to FailureUnknown.
func KindOf(err error) FailureKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return FailureUnknown
}

// classifyTransport wraps a transport-level error (dial, DNS, timeout,
// context deadline) as a connection failure; anything else is unknown.
func classifyTransport(detail string, err error) *Error {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return &Error{Kind: FailureConnection, Detail: detail, Err: err}
	default:
		return &Error{Kind: FailureUnknown, Detail: detail, Err: err}
	}
}
