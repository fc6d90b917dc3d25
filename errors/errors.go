// Package errors defines the closed error taxonomy used across the
// twine-go module: VerificationError, ResolutionError, StoreError,
// SpecificationError and ConversionError. Each is a concrete struct
// implementing the error interface so callers can discriminate with
// errors.As; all but SpecificationError keep their cause in a Wrapped
// field exposed through Unwrap. Wrap annotates any other error with
// fmt.Errorf("%s: %w", ...).
package errors

import (
	"errors"
	"fmt"
)

// Wrap annotates err with message. Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// VerificationReason discriminates the kind of verification failure.
type VerificationReason int

const (
	TixelNotOnStrand VerificationReason = iota
	InvalidTwineFormat
	BadCbor
	BadJson
	BadSignature
	UnsupportedKeyAlgorithm
	MalformedJwk
	UnsupportedHashAlgorithm
	CidMismatch
	WrongType
	BadSpecification
	General
	PayloadInvalid
)

func (r VerificationReason) String() string {
	switch r {
	case TixelNotOnStrand:
		return "tixel does not belong to the supplied strand"
	case InvalidTwineFormat:
		return "data structure does not conform to any known twine format"
	case BadCbor:
		return "problem parsing cbor"
	case BadJson:
		return "problem parsing json"
	case BadSignature:
		return "signature is invalid"
	case UnsupportedKeyAlgorithm:
		return "unsupported key algorithm"
	case MalformedJwk:
		return "malformed jwk"
	case UnsupportedHashAlgorithm:
		return "unsupported hash algorithm"
	case CidMismatch:
		return "cid mismatch"
	case WrongType:
		return "twine has wrong type"
	case BadSpecification:
		return "bad specification"
	case General:
		return "general error"
	case PayloadInvalid:
		return "payload invalid"
	default:
		return "unknown verification error"
	}
}

// VerificationError reports why a Strand or Tixel failed verification.
type VerificationError struct {
	Reason  VerificationReason
	Detail  string
	Wrapped error
}

func (e *VerificationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	return e.Reason.String()
}

func (e *VerificationError) Unwrap() error { return e.Wrapped }

// NewVerificationError builds a VerificationError for reason with an
// optional detail string.
func NewVerificationError(reason VerificationReason, detail string) *VerificationError {
	return &VerificationError{Reason: reason, Detail: detail}
}

// WrapVerificationError builds a VerificationError that wraps cause.
func WrapVerificationError(reason VerificationReason, cause error) *VerificationError {
	return &VerificationError{Reason: reason, Detail: cause.Error(), Wrapped: cause}
}

// NewCidMismatch reports an expected-vs-actual CID disagreement.
func NewCidMismatch(expected, actual string) *VerificationError {
	return &VerificationError{
		Reason: CidMismatch,
		Detail: fmt.Sprintf("expected %s, got %s", expected, actual),
	}
}

// NewWrongType reports that a Strand was found where a Tixel was
// expected, or vice versa.
func NewWrongType(expected, found string) *VerificationError {
	return &VerificationError{
		Reason: WrongType,
		Detail: fmt.Sprintf("expected %s, found %s", expected, found),
	}
}

// ResolutionReason discriminates the kind of resolver failure.
type ResolutionReason int

const (
	NotFound ResolutionReason = iota
	Invalid
	BadData
	QueryMismatch
	Fetch
)

func (r ResolutionReason) String() string {
	switch r {
	case NotFound:
		return "twine not found"
	case Invalid:
		return "twine is invalid"
	case BadData:
		return "bad data"
	case QueryMismatch:
		return "data does not match query"
	case Fetch:
		return "problem fetching data"
	default:
		return "unknown resolution error"
	}
}

// ResolutionError reports why a Resolver operation failed.
type ResolutionError struct {
	Reason  ResolutionReason
	Detail  string
	Wrapped error
}

func (e *ResolutionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	return e.Reason.String()
}

func (e *ResolutionError) Unwrap() error { return e.Wrapped }

// ErrNotFound is the not-found *ResolutionError returned whenever a
// Resolver cannot locate the Strand or Tixel a query names.
var ErrNotFound = &ResolutionError{Reason: NotFound}

// NewResolutionError builds a ResolutionError wrapping cause.
func NewResolutionError(reason ResolutionReason, cause error) *ResolutionError {
	e := &ResolutionError{Reason: reason, Wrapped: cause}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// NewFetchError reports a transport/storage failure underlying a
// resolver operation (network error, disk error, and so on).
func NewFetchError(detail string) *ResolutionError {
	return &ResolutionError{Reason: Fetch, Detail: detail}
}

// IsNotFound reports whether err is, or wraps, a not-found resolution
// error.
func IsNotFound(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Reason == NotFound
	}
	return false
}

// StoreReason discriminates the kind of store failure.
type StoreReason int

const (
	StoreInvalid StoreReason = iota
	Saving
	Fetching
)

func (r StoreReason) String() string {
	switch r {
	case StoreInvalid:
		return "twine is invalid"
	case Saving:
		return "problem saving data"
	case Fetching:
		return "problem fetching data"
	default:
		return "unknown store error"
	}
}

// StoreError reports why a Store operation failed.
type StoreError struct {
	Reason  StoreReason
	Detail  string
	Wrapped error
}

func (e *StoreError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
	}
	return e.Reason.String()
}

func (e *StoreError) Unwrap() error { return e.Wrapped }

// NewStoreError builds a StoreError wrapping cause.
func NewStoreError(reason StoreReason, cause error) *StoreError {
	e := &StoreError{Reason: reason, Wrapped: cause}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// SpecificationError reports that a specification string failed to
// parse or did not match an expected version.
type SpecificationError struct {
	Detail string
}

func (e *SpecificationError) Error() string {
	return fmt.Sprintf("specification error: %s", e.Detail)
}

// NewSpecificationError builds a SpecificationError with the given
// message, formatted like fmt.Sprintf.
func NewSpecificationError(format string, args ...any) *SpecificationError {
	return &SpecificationError{Detail: fmt.Sprintf(format, args...)}
}

// ConversionError reports a failure converting between query/string
// representations, or encoding/decoding a wire container.
type ConversionError struct {
	Detail  string
	Wrapped error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid format: %s", e.Detail)
}

func (e *ConversionError) Unwrap() error { return e.Wrapped }

// NewConversionError builds a ConversionError wrapping cause, which may
// be nil.
func NewConversionError(detail string, cause error) *ConversionError {
	return &ConversionError{Detail: detail, Wrapped: cause}
}
