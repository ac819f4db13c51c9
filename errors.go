package charsetconv

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnsupportedCharset indicates a label does not map to a known encoding.
	ErrUnsupportedCharset = errors.New("unsupported charset")

	// ErrMalformedContentType indicates a Content-Type value could not be parsed.
	ErrMalformedContentType = errors.New("malformed content type")

	// ErrNoCharset indicates the sniffer produced no usable label.
	ErrNoCharset = errors.New("no charset")

	// ErrDecode indicates the body could not be transformed with a resolved encoding.
	ErrDecode = errors.New("decode failed")

	// ErrUnmarshal indicates the codec failed to unmarshal the decoded body.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrReadBody indicates the response body could not be read.
	ErrReadBody = errors.New("read body failed")
)

// DecodeError reports that charset resolution failed for good.
// It wraps the error of the last candidate tried.
type DecodeError struct {
	Stage Stage  // Stage that gave up
	Label string // Label that was rejected, empty if none was produced
	Err   error  // Underlying error (wraps ErrUnsupportedCharset, ErrNoCharset, ErrDecode)
}

func (e *DecodeError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s stage: label %q: %v", e.Stage, e.Label, e.Err)
	}
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// CodecError represents an unmarshal error of the structured deserializer.
type CodecError struct {
	Err         error  // Underlying sentinel error (ErrUnmarshal)
	ContentType string // Content type of the codec that failed
	Cause       error  // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.ContentType)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newDecodeError creates a DecodeError for a failed terminal stage.
func newDecodeError(stage Stage, label string, err error) error {
	return &DecodeError{
		Stage: stage,
		Label: label,
		Err:   err,
	}
}

// newCodecError creates a CodecError for unmarshal failures.
func newCodecError(sentinel error, contentType string, cause error) error {
	return &CodecError{
		Err:         sentinel,
		ContentType: contentType,
		Cause:       cause,
	}
}
