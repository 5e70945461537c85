package apperr

import (
	"errors"
	"fmt"
)

// Kind is a classification of error type.
type Kind string

const (
	CredentialMissing Kind = "credential_missing"
	Validation        Kind = "validation"
	Upstream          Kind = "upstream"
	Network           Kind = "network"
	Parse             Kind = "parse"
	Generation        Kind = "generation"
	Cancelled         Kind = "cancelled"
	NotFound          Kind = "not_found"
	Conflict          Kind = "conflict"
)

// Error is the error type shared by every layer of the wizard.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Status and Body are set for Upstream errors
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	switch e.Kind {
	case Upstream:
		msg = fmt.Sprintf("upstream error: status %d: %s", e.Status, e.Body)
	case Network:
		msg = fmt.Sprintf("network error: %v", e.Err)
	case Cancelled:
		if msg == "" {
			msg = "request cancelled"
		}
	}
	if e.Kind != Network && e.Err != nil && msg != "" {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	} else if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

// Unwrap allows errors.Is / errors.As to work with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Err
}

func NewCredentialMissing(name string) *Error {
	return &Error{Kind: CredentialMissing, Message: fmt.Sprintf("%s is not set", name)}
}

func NewValidation(msg string) *Error {
	return &Error{Kind: Validation, Message: msg}
}

func NewUpstream(status int, body string) *Error {
	return &Error{Kind: Upstream, Status: status, Body: body}
}

func NewNetwork(err error) *Error {
	return &Error{Kind: Network, Err: err}
}

func NewParse(msg string) *Error {
	return &Error{Kind: Parse, Message: msg}
}

func NewGeneration(msg string) *Error {
	return &Error{Kind: Generation, Message: msg}
}

func NewCancelled(msg string, err error) *Error {
	return &Error{Kind: Cancelled, Message: msg, Err: err}
}

func NewNotFound(what, id string) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf("%s %q not found", what, id)}
}

func NewConflict(msg string) *Error {
	return &Error{Kind: Conflict, Message: msg}
}

// Wrap prefixes err with op while keeping its kind visible to KindOf. An
// *Error deeper in a chain is left in place so the outer text survives.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*Error); ok {
		cp := *ae
		if cp.Op != "" {
			cp.Op = op + ": " + cp.Op
		} else {
			cp.Op = op
		}
		return &cp
	}
	return fmt.Errorf("%s: %w", op, err)
}

// KindOf reports the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
