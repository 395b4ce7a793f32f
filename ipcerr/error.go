// Package ipcerr defines the closed error taxonomy every operation in
// this module reports through: callers branch on Kind, not on string
// matching an error message.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package ipcerr

import (
	"errors"
	"fmt"
)

// Kind is one of the error categories the core exposes.
type Kind int

const (
	// Ok is never wrapped in an Error; it exists so Kind has a
	// meaningful zero value.
	Ok Kind = iota
	// InvalidParam means the caller violated a precondition: a length
	// over MaxPayload, a buffer too small, an over-declared icon.
	InvalidParam
	// NoStorage means the record/slot the caller asked about does not
	// exist: absent appid on GET, no free slot or template on SET.
	NoStorage
	// Transport means the underlying queue call failed, or delivered a
	// fragment of unexpected size for a fixed-size field.
	Transport
	// Protocol means a fragment arrived with an unknown tag, or a
	// mandatory sequence tag was out of order.
	Protocol
	// NoMem means an icon allocation failed. It is never returned as an
	// error from the GET requester (see appid.RequestMetadata); it
	// exists so other callers of the same Allocator can report it.
	NoMem
	// Fatal means a hook address failed validation. The process panics
	// with an *Error{Kind: Fatal} rather than returning this value.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Ok:
		return "ok"
	case InvalidParam:
		return "invalid parameter"
	case NoStorage:
		return "no storage"
	case Transport:
		return "transport"
	case Protocol:
		return "protocol"
	case NoMem:
		return "no memory"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("ipcerr.Kind(%d)", int(k))
	}
}

// Error is the concrete error value returned by this module's
// operations. Op identifies the failing operation for diagnostics; Err,
// when non-nil, is the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap exposes the underlying cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
