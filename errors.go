package sci

import (
	"errors"

	"github.com/32bitkid/scires/decompression"
	"github.com/32bitkid/scires/resource"
)

var (
	// ErrMalformedHeader reports a map or volume header that cannot be
	// parsed: a missing sentinel, an entry region no encoding divides, or a
	// volume header that does not name the resource the map promised.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrAmbiguousMapEncoding reports a lookup-table map whose entry spans
	// divide evenly by more than one entry size.
	ErrAmbiguousMapEncoding = errors.New("ambiguous map entry encoding")

	// ErrFormatMismatch is returned by a generation opener when the map is
	// clearly not of its generation. Open only moves on to the next opener
	// on this error.
	ErrFormatMismatch = errors.New("map is not of this format")

	// ErrIO wraps failures to open or read map, volume and patch files.
	ErrIO = errors.New("resource i/o failure")

	ErrNotFound = errors.New("resource not found")
)

// Errors raised by the decompression and resource packages, re-exported so
// that callers can match every failure against this package.
var (
	ErrUnknownResourceType = resource.ErrUnknownResourceType
	ErrUnsupportedMethod   = decompression.ErrUnsupportedMethod
	ErrSizeMismatch        = decompression.ErrSizeMismatch
	ErrCorruptStream       = decompression.ErrCorruptStream
)
