package domain

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure classes this service produces. Transport
// mapping happens in exactly one place (the handler's status table), keyed on
// Kind rather than on error identity or message text.
type Kind uint8

const (
	// KindValidation covers bad input, wrong account family or status, and
	// business-rule violations.
	KindValidation Kind = iota + 1
	// KindNotFound covers lookups that missed, including 404s translated
	// from the account service.
	KindNotFound
	// KindInsufficientFunds is a balance or credit check that failed before
	// any mutation.
	KindInsufficientFunds
	// KindServiceUnavailable is an upstream transport or availability
	// failure reported by the account gateway.
	KindServiceUnavailable
	// KindTransferIncomplete is a transfer whose debit was successfully
	// reversed after the credit leg failed. The economic effect was undone;
	// the call still failed.
	KindTransferIncomplete
	// KindTransferEscalated is the unrecoverable transfer state: source
	// debited, target never credited, reversal also failed. Requires manual
	// reconciliation.
	KindTransferEscalated
	// KindInternal is any other infrastructure or storage failure.
	KindInternal
)

// Error is the tagged error variant used across the service.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a tagged error with a formatted message.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error without losing it.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the failure class of err, walking wrapped errors.
// Unclassified errors report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
