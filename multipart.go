// Package multipart implements a streaming multipart/form-data codec. The
// decoder consumes raw byte chunks of any size and emits decoded part events
// without ever buffering the whole body; the encoder produces a lazy chunk
// sequence out of ordered field descriptors. The package performs no I/O on
// its own: transports, upload persistence and size policies live on the
// caller's side.
package multipart

import (
	"github.com/dchest/uniuri"

	"github.com/indigo-web/multipart/status"
)

// MaxBoundaryLength is the historical limit of RFC 2046.
const MaxBoundaryLength = 70

const generatedBoundaryLength = 42

// the bchars alphabet of RFC 2046, narrowed down to alphanumerics so a
// generated boundary never needs quoting inside a Content-Type header
var boundaryChars = []byte("0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// NewBoundary generates a random boundary, long enough for an incidental
// occurrence inside a part's content to be practically impossible. Choosing
// (and keeping unique) the boundary remains the caller's responsibility,
// the helper is a sane default.
func NewBoundary() string {
	return uniuri.NewLenChars(generatedBoundaryLength, boundaryChars)
}

// ValidateBoundary checks the boundary against the wire format's limits and
// the bchars alphabet of RFC 2046. A valid boundary is used verbatim and is
// never re-escaped.
func ValidateBoundary(boundary string) error {
	switch {
	case len(boundary) == 0:
		return status.ErrEmptyBoundary
	case len(boundary) > MaxBoundaryLength:
		return status.ErrBoundaryTooLong
	}

	for i := 0; i < len(boundary); i++ {
		if !isBoundaryChar(boundary[i]) {
			return status.ErrBoundaryChars
		}
	}

	return nil
}

func isBoundaryChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	// the space bchar is deliberately not accepted: RFC 2046 forbids it in
	// the last position, and it is indistinguishable from transport padding
	switch c {
	case '\'', '(', ')', '+', '_', ',', '-', '.', '/', ':', '=', '?':
		return true
	}

	return false
}
