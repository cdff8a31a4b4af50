package texpack

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the categories named by the
// texture toolchain's error-handling design: input validation, semantic
// infeasibility, I/O failure, resource exhaustion, or bad CLI argument.
type Kind uint8

const (
	// KindUnknown is the zero value; never returned by this module.
	KindUnknown Kind = iota

	// Input errors: the source bytes or path are unusable.
	KindFileNotFound
	KindUnsupportedExtension
	KindBadSignature
	KindTruncatedHeader
	KindInconsistentLevelTable
	KindUnsupportedFormat

	// Semantic errors: the request cannot be satisfied by any backend or
	// mapping, even though the input itself is well-formed.
	KindUnsupportedByAllBackends
	KindUnmappedFormat
	KindNoHDRBC6Backend
	KindUnsupportedDecode
	KindDimensionNotBlockAligned

	// I/O errors.
	KindReadFailed
	KindWriteFailed
	KindTempFilePromotionFailed

	// Resource errors.
	KindOutOfMemory
	KindMappingFailed

	// Argument errors: CLI/script input was malformed.
	KindBadFlag
	KindBadResizeSpec
	KindBadSwizzleSpec
)

// String returns a lower_snake_case name for the kind, stable across
// releases and suitable for machine-readable log output.
func (k Kind) String() string {
	switch k {
	case KindFileNotFound:
		return "file_not_found"
	case KindUnsupportedExtension:
		return "unsupported_extension"
	case KindBadSignature:
		return "bad_signature"
	case KindTruncatedHeader:
		return "truncated_header"
	case KindInconsistentLevelTable:
		return "inconsistent_level_table"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindUnsupportedByAllBackends:
		return "unsupported_by_all_backends"
	case KindUnmappedFormat:
		return "unmapped_format"
	case KindNoHDRBC6Backend:
		return "no_hdr_bc6_backend"
	case KindUnsupportedDecode:
		return "unsupported_decode"
	case KindDimensionNotBlockAligned:
		return "dimension_not_block_aligned"
	case KindReadFailed:
		return "read_failed"
	case KindWriteFailed:
		return "write_failed"
	case KindTempFilePromotionFailed:
		return "temp_file_promotion_failed"
	case KindOutOfMemory:
		return "out_of_memory"
	case KindMappingFailed:
		return "mapping_failed"
	case KindBadFlag:
		return "bad_flag"
	case KindBadResizeSpec:
		return "bad_resize_spec"
	case KindBadSwizzleSpec:
		return "bad_swizzle_spec"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every texpack package. Op names the
// failing operation (e.g. "ktx.OpenForRead"), Kind classifies the
// failure, and Err, when present, is the underlying cause.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, texpack.NewError("", kind, nil)) checks, or
// compare kinds directly with AsKind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// NewError builds an *Error for op/kind, optionally wrapping cause.
func NewError(op string, kind Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// AsKind reports the Kind of err if it is, or wraps, a texpack *Error.
func AsKind(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindUnknown, false
}
