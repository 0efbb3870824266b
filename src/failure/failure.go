// Package failure tags deployment errors with the stage that produced them
// so callers can tell a pack failure from an unreachable host.
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies the deployment stage that failed.
type Kind int

const (
	// Unknown is returned by KindOf for errors not produced by this package.
	Unknown Kind = iota
	Pack
	MissingArchive
	Transfer
	Extract
	LinkSwap
	Prune
)

func (k Kind) String() string {
	switch k {
	case Pack:
		return "pack"
	case MissingArchive:
		return "missing-archive"
	case Transfer:
		return "transfer"
	case Extract:
		return "extract"
	case LinkSwap:
		return "link-swap"
	case Prune:
		return "prune"
	default:
		return "unknown"
	}
}

// Error is a failure of one deployment step. Host is empty for local steps.
type Error struct {
	Kind Kind
	Host string
	Step string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Host != "" {
		msg += " on " + e.Host
	}
	if e.Step != "" {
		msg += " (" + e.Step + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged error.
func New(kind Kind, host, step string, err error) *Error {
	return &Error{Kind: kind, Host: host, Step: step, Err: err}
}

// Newf builds a tagged error from a format string.
func Newf(kind Kind, host, step, format string, args ...any) *Error {
	return New(kind, host, step, fmt.Errorf(format, args...))
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
