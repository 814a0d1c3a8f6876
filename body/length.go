package body

import (
	"fmt"

	"github.com/streamforge/awsclient/errors"
)

// Length is the resolved content length of a request body: either a known
// byte count or unknown. The zero value is unknown.
type Length struct {
	n     int64
	known bool
}

// Unknown is the Length of a payload whose byte count could not be
// determined without consuming it.
var Unknown = Length{}

// Known returns a Length of exactly n bytes.
func Known(n int64) Length {
	return Length{n: n, known: true}
}

// Value returns the byte count and whether it is known.
func (l Length) Value() (int64, bool) {
	return l.n, l.known
}

// IsKnown reports whether the byte count was determined.
func (l Length) IsKnown() bool {
	return l.known
}

func (l Length) String() string {
	if !l.known {
		return "unknown"
	}
	return fmt.Sprintf("%d", l.n)
}

// Resolve determines the content length for src without consuming it.
//
// A non-negative caller override always wins, even when it contradicts the
// source's intrinsic size: the caller's assertion is trusted and never
// verified against the actual byte count (a mismatch surfaces as a protocol
// error from the service, not locally). A negative override is rejected
// before any byte is read. With no override, the source's intrinsic size is
// used when it has one, and Unknown is returned otherwise.
func Resolve(src Source, override *int64) (Length, error) {
	if override != nil {
		if *override < 0 {
			return Unknown, errors.NewError("body.resolve", errors.ErrInvalidContentLength).
				WithMessage(fmt.Sprintf("override %d is negative", *override))
		}
		return Known(*override), nil
	}
	if n, ok := src.length(); ok {
		return Known(n), nil
	}
	return Unknown, nil
}
