package apperr

import (
	"errors"
	"fmt"
)

// Codes for every workflow failure the services can produce. Stored state
// is never partially written when one of these is returned.
const (
	CodeInvalidGraph       = "INVALID_GRAPH"
	CodePrerequisiteNotMet = "PREREQUISITE_NOT_MET"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeDuplicateRequest   = "DUPLICATE_REQUEST"
	CodeTerminalState      = "TERMINAL_STATE"
	CodeNotAuthorized      = "NOT_AUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
)

type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

func New(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

func Newf(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

func InvalidGraph(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidGraph, format, args...)
}

func PrerequisiteNotMet(format string, args ...interface{}) *Error {
	return Newf(CodePrerequisiteNotMet, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return Newf(CodeInvalidTransition, format, args...)
}

func DuplicateRequest(format string, args ...interface{}) *Error {
	return Newf(CodeDuplicateRequest, format, args...)
}

func TerminalState(format string, args ...interface{}) *Error {
	return Newf(CodeTerminalState, format, args...)
}

func NotAuthorized(format string, args ...interface{}) *Error {
	return Newf(CodeNotAuthorized, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return Newf(CodeNotFound, format, args...)
}

// CodeOf returns the workflow code carried by err, or "" when err is not a
// workflow error (e.g. a raw storage failure the caller may retry).
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
