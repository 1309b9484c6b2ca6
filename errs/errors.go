// Package errs defines the sentinel errors returned by otmap packages.
//
// Errors are wrapped with context at the call site, so callers should match
// them with errors.Is rather than by comparing error strings.
package errs

import "errors"

// Codec errors.
var (
	// ErrUnsupportedEncoding is returned for a byte width outside 0-4.
	ErrUnsupportedEncoding = errors.New("unsupported encoding parameter")
	// ErrUnsupportedPrecision is returned for a calibrated bit width outside 1-32.
	ErrUnsupportedPrecision = errors.New("unsupported precision parameter")
	// ErrEncodedValueOverflow is returned when an encoded value leaves a non-zero
	// residual after its byte width has been emitted.
	ErrEncodedValueOverflow = errors.New("encoded value does not fit in encoding width")
	// ErrProbabilityOutOfBand is returned by strict checks for probabilities outside
	// the calibrated codec band.
	ErrProbabilityOutOfBand = errors.New("probability outside calibration band")
	// ErrShortValue is returned when fewer bytes than the encoding width are available.
	ErrShortValue = errors.New("not enough bytes for encoded value")
	// ErrInvalidValue is returned when a decoded native value is NaN.
	ErrInvalidValue = errors.New("invalid node value")
)

// Tree and file format errors.
var (
	// ErrFormatDetection is returned when no reader recognizes the input stream.
	ErrFormatDetection = errors.New("could not detect tree format")
	// ErrWriteFailure is returned when a tree could not be written.
	ErrWriteFailure = errors.New("tree write failure")
	// ErrEmptyTree is returned when a read yields fewer nodes than required.
	ErrEmptyTree = errors.New("empty or invalid tree")
	// ErrCompactBinaryUnsupported is returned when writing a tree kind that has no
	// compact binary representation.
	ErrCompactBinaryUnsupported = errors.New("compact binary format not supported for tree type")
	// ErrInvalidOctant is returned for an octant index outside 0-7.
	ErrInvalidOctant = errors.New("invalid octant index")
	// ErrNodeNotFound is returned when an octant path does not address an existing node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidResolution is returned for a non-positive tree resolution.
	ErrInvalidResolution = errors.New("invalid tree resolution")
	// ErrInvalidTreeKind is returned for an unknown tree kind.
	ErrInvalidTreeKind = errors.New("invalid tree kind")
	// ErrNodeOwnership is returned when attaching a node that already has a parent,
	// or that is an ancestor of the new parent.
	ErrNodeOwnership = errors.New("node already owned or would form a cycle")
	// ErrTreeTooDeep is returned when a tree exceeds the supported depth.
	ErrTreeTooDeep = errors.New("tree too deep")
)

// Header and payload errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	ErrChecksumMismatch   = errors.New("payload checksum mismatch")
	ErrTruncatedPayload   = errors.New("truncated payload")
	ErrTrailingPayload    = errors.New("unexpected trailing payload bytes")
	ErrNodeCountMismatch  = errors.New("node count mismatch")
	ErrPayloadTooLarge    = errors.New("payload too large")
)
