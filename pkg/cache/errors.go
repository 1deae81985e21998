package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind classifies store failures for the retry policy.
type ErrorKind string

const (
	// Transient kinds: eligible for retry with backoff.
	KindCapacityExceeded  ErrorKind = "capacity_exceeded"
	KindThrottled         ErrorKind = "throttled"
	KindInternalTransient ErrorKind = "internal_transient"

	// Permanent kinds: surfaced immediately, never retried.
	KindValidation ErrorKind = "validation"
	KindPermission ErrorKind = "permission"
	KindUnknown    ErrorKind = "unknown"
)

// StoreError is a cache store failure tagged with its kind.
type StoreError struct {
	Kind ErrorKind
	Op   string
	Key  string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s %s: %s: %v", e.Op, e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("cache %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err as a StoreError of the given kind.
func NewStoreError(kind ErrorKind, op, key string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Key: key, Err: err}
}

// IsTransient reports whether err is a store failure that may succeed on retry.
// Only capacity-exceeded, throttling, and internal-transient errors qualify;
// everything else (validation, permission, unknown) is permanent.
func IsTransient(err error) bool {
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		return false
	}
	switch storeErr.Kind {
	case KindCapacityExceeded, KindThrottled, KindInternalTransient:
		return true
	default:
		return false
	}
}

// classify maps a raw backend error to an ErrorKind. The transient set mirrors
// what a provider signals on overload: capacity, throttling, and generic
// server-side hiccups (timeouts, connection drops, replica warm-up).
func classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindInternalTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindInternalTransient
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "OOM"), strings.Contains(msg, "max number of clients"):
		return KindCapacityExceeded
	case strings.Contains(msg, "LOADING"), strings.Contains(msg, "CLUSTERDOWN"),
		strings.Contains(msg, "connection refused"), strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "i/o timeout"):
		return KindInternalTransient
	case strings.Contains(msg, "NOAUTH"), strings.Contains(msg, "NOPERM"):
		return KindPermission
	case strings.Contains(msg, "WRONGTYPE"), strings.Contains(msg, "invalid"):
		return KindValidation
	default:
		return KindUnknown
	}
}
