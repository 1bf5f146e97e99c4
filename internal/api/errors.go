package api

import (
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"
)

// ErrorCode is the stable machine-readable identifier returned to clients.
type ErrorCode string

const (
	CodeUnauthorized          ErrorCode = "UNAUTHORIZED"
	CodeForbidden             ErrorCode = "FORBIDDEN"
	CodeInvalidUUID           ErrorCode = "INVALID_UUID"
	CodeInvalidChunkIndex     ErrorCode = "INVALID_CHUNK_INDEX"
	CodeInvalidInput          ErrorCode = "INVALID_INPUT"
	CodeMissingChunks         ErrorCode = "MISSING_CHUNKS"
	CodeRecordingNotFound     ErrorCode = "RECORDING_NOT_FOUND"
	CodeShareNotFound         ErrorCode = "SHARE_NOT_FOUND"
	CodeShareRevoked          ErrorCode = "SHARE_REVOKED"
	CodeShareExpired          ErrorCode = "SHARE_EXPIRED"
	CodeShareViewLimitReached ErrorCode = "SHARE_VIEW_LIMIT_REACHED"
	CodeFileNotFound          ErrorCode = "FILE_NOT_FOUND"
	CodeThumbnailNotFound     ErrorCode = "THUMBNAIL_NOT_FOUND"
	CodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// Error is an expected, control-flow-relevant failure. Services return it
// through normal error values; endpoints map the code to a fixed HTTP status.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the given code.
func NewError(code ErrorCode) *Error {
	return &Error{Code: code}
}

// WrapError attaches a code to an underlying cause.
func WrapError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Err: err}
}

// CodeOf extracts the ErrorCode from err, or CodeInternal for unexpected errors.
func CodeOf(err error) ErrorCode {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return CodeInternal
}

// StatusOf maps an ErrorCode to its fixed HTTP status.
func StatusOf(code ErrorCode) int {
	switch code {
	case CodeUnauthorized:
		return fasthttp.StatusUnauthorized
	case CodeForbidden:
		return fasthttp.StatusForbidden
	case CodeInvalidUUID, CodeInvalidChunkIndex, CodeInvalidInput, CodeMissingChunks:
		return fasthttp.StatusBadRequest
	case CodeRecordingNotFound, CodeShareNotFound, CodeFileNotFound, CodeThumbnailNotFound:
		return fasthttp.StatusNotFound
	case CodeShareRevoked, CodeShareExpired, CodeShareViewLimitReached:
		return fasthttp.StatusGone
	default:
		return fasthttp.StatusInternalServerError
	}
}
