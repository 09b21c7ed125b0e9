package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindPersistence  ErrorKind = "persistence"
)

// Error is the error type every service returns to the HTTP layer. Code is a
// stable machine-readable identifier, Message is meant for humans.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two domain errors by kind and code so sentinels survive
// being re-created with different details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func Forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

// Persistence wraps a store failure. Nil in, nil out.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindPersistence, Code: "PERSISTENCE_ERROR", Message: "storage operation failed", Err: err}
}

// TransitionConflict is attached to conflict errors so clients can refresh
// from the state the entity is actually in.
type TransitionConflict struct {
	Entity       string `json:"entity"`
	ID           string `json:"id"`
	Attempted    string `json:"attempted"`
	CurrentState string `json:"current_state"`
}

const CodeInvalidTransition = "INVALID_TRANSITION"

// ErrInvalidTransition matches any error built by ConflictError.
var ErrInvalidTransition = Conflict(CodeInvalidTransition, "invalid state transition")

func ConflictError(entity, id, attempted, actual string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot %s %s %s: current state is %s", attempted, entity, id, actual),
		Details: TransitionConflict{Entity: entity, ID: id, Attempted: attempted, CurrentState: actual},
	}
}

// KindOf reports the kind of err, or "" for errors outside the taxonomy.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CurrentState extracts the actual state from a transition conflict.
func CurrentState(err error) (string, bool) {
	var de *Error
	if !errors.As(err, &de) {
		return "", false
	}
	tc, ok := de.Details.(TransitionConflict)
	if !ok {
		return "", false
	}
	return tc.CurrentState, true
}
