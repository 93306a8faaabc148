package store

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind tags store errors so callers can distinguish outages worth
// retrying by hand from misconfiguration that will not fix itself.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureTransient
	FailurePermanent
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransient:
		return "transient"
	case FailurePermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

type StoreError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{
		Kind: Classify(err),
		Op:   op,
		Err:  err,
	}
}

// IsTransient reports whether err is a store failure worth an explicit user
// retry. There is no automatic retry anywhere in the write path.
func IsTransient(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind == FailureTransient
	}
	return Classify(err) == FailureTransient
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"broken pipe",
	"i/o timeout",
	"server selection error",
}

var permanentPatterns = []string{
	"unauthorized",
	"not authorized",
	"permission denied",
	"authentication failed",
	"invalid namespace",
}

func Classify(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return FailureTransient
		}
	}
	for _, pattern := range permanentPatterns {
		if strings.Contains(msg, pattern) {
			return FailurePermanent
		}
	}

	return FailureUnknown
}
