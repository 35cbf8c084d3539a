// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorKind categorizes client errors for handling.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindTransport covers network failures and non-2xx statuses.
	KindTransport
	// KindDecode covers bodies that are unusable for the detected path.
	KindDecode
	// KindApplication covers payloads that carry an explicit error field.
	KindApplication
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindApplication:
		return "application"
	default:
		return "unknown"
	}
}

// Error represents a failed chat round trip.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel errors for easy checking.
var (
	ErrTransport   = &Error{Kind: KindTransport, Message: "transport failure"}
	ErrDecode      = &Error{Kind: KindDecode, Message: "decode error"}
	ErrApplication = &Error{Kind: KindApplication, Message: "application error"}
)

func transportError(msg string, cause error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Cause: cause}
}

func decodeError(msg string, cause error) *Error {
	return &Error{Kind: KindDecode, Message: msg, Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsTransport checks if an error is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsApplication checks if an error came from an explicit error field.
func IsApplication(err error) bool {
	return errors.Is(err, ErrApplication)
}
