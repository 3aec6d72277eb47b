// Package errs defines the error-kind taxonomy used across the slot
// pipeline. Callers switch on Kind rather than matching error strings;
// every error the core returns can be unwrapped to a *Error.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates how a failure should be handled upstream.
type Kind int

const (
	// TransientNetwork covers connection failures, timeouts, and 5xx
	// responses from any upstream or downstream. Retried with backoff.
	TransientNetwork Kind = iota
	// PermanentUpstream covers 4xx responses, malformed responses, and
	// missing required fields in an otherwise-present response.
	PermanentUpstream
	// ConsistencyViolation covers beacon/execution/sidecar data that
	// fails the cross-source invariants checked during correlation.
	// Surfaced as permanent.
	ConsistencyViolation
	// Fatal covers unrecoverable internal state, e.g. a poisoned lock.
	// The process should terminate rather than continue.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case TransientNetwork:
		return "transient_network"
	case PermanentUpstream:
		return "permanent_upstream"
	case ConsistencyViolation:
		return "consistency_violation"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and, where relevant, a slot.
type Error struct {
	Kind  Kind
	Slot  uint32
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (slot %d): %s: %v", e.Kind, e.Slot, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s (slot %d): %s", e.Kind, e.Slot, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a tagged error for the given kind and slot.
func New(kind Kind, slot uint32, msg string, cause error) *Error {
	return &Error{Kind: kind, Slot: slot, Msg: msg, Cause: cause}
}

// Transient builds a TransientNetwork error.
func Transient(slot uint32, msg string, cause error) *Error {
	return New(TransientNetwork, slot, msg, cause)
}

// Permanent builds a PermanentUpstream error.
func Permanent(slot uint32, msg string, cause error) *Error {
	return New(PermanentUpstream, slot, msg, cause)
}

// Consistency builds a ConsistencyViolation error.
func Consistency(slot uint32, msg string, cause error) *Error {
	return New(ConsistencyViolation, slot, msg, cause)
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error. Unrecognized errors default to TransientNetwork: an error from a
// collaborator that didn't tag itself is treated conservatively, as
// something worth retrying rather than aborting the whole range on.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return TransientNetwork
}

// IsRetryable reports whether err should be retried by the Range Driver's
// backoff loop.
func IsRetryable(err error) bool {
	return KindOf(err) == TransientNetwork
}

// ClassifyHTTP maps an HTTP status code (and/or transport error) from any
// upstream or downstream call to an error Kind, mirroring the status-class
// split the original indexer used: connection errors and 5xx are
// transient, any 4xx is permanent.
func ClassifyHTTP(status int, cause error) Kind {
	switch {
	case status == 0:
		// no response at all: connection refused, timeout, DNS failure, etc.
		return TransientNetwork
	case status >= 500:
		return TransientNetwork
	case status >= 400:
		return PermanentUpstream
	default:
		return TransientNetwork
	}
}

// IsNotFound reports whether status represents the soft "missing resource"
// case, which the beacon client maps to (nil, nil) rather than an error.
func IsNotFound(status int) bool {
	return status == http.StatusNotFound
}
