package tool

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the error vocabulary observed by callers of both
// transports. Every failure crossing the transport boundary carries exactly
// one of these.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindValidation      ErrorKind = "validation_error"
	KindToolExecution   ErrorKind = "tool_execution_error"
	KindTimeout         ErrorKind = "timeout"
	KindDuplicateTool   ErrorKind = "duplicate_tool"
	KindTransportDecode ErrorKind = "transport_decode_error"
	KindInternal        ErrorKind = "internal"
)

var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrToolNotFound  = errors.New("tool not found")
)

// StructuredError is the single error shape emitted over the wire.
type StructuredError struct {
	Kind          ErrorKind      `json:"kind"`
	Message       string         `json:"message"`
	Detail        map[string]any `json:"detail,omitempty"`
	CorrelationID string         `json:"correlationId,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Subkind classifies failures raised by tool bodies. Executors use these to
// distinguish, say, a missing file from a permission failure; the dispatcher
// preserves them in the outgoing StructuredError detail.
type Subkind string

const (
	SubkindNotFound         Subkind = "not_found"
	SubkindPermissionDenied Subkind = "permission_denied"
	SubkindInvalidInput     Subkind = "invalid_input"
	SubkindUpstreamError    Subkind = "upstream_error"
	SubkindInternal         Subkind = "internal"
)

// ToolError is the typed failure an executor returns. Err, when set, keeps
// the underlying cause reachable through errors.Is / errors.As.
type ToolError struct {
	Subkind Subkind
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Subkind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Subkind, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError builds a ToolError with a formatted message.
func NewToolError(subkind Subkind, format string, args ...any) *ToolError {
	return &ToolError{Subkind: subkind, Message: fmt.Sprintf(format, args...)}
}

// WrapToolError attaches an underlying cause to a new ToolError.
func WrapToolError(subkind Subkind, err error, format string, args ...any) *ToolError {
	return &ToolError{Subkind: subkind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Normalize converts any failure into a StructuredError. Errors already
// classified (validation, tool, sentinel) keep their kind; everything else
// becomes KindInternal with the original message preserved so nothing is
// silently swallowed.
func Normalize(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var structured *StructuredError
	if errors.As(err, &structured) {
		return structured
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return &StructuredError{
			Kind:    KindValidation,
			Message: validation.Error(),
			Detail:  validation.Detail(),
		}
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return &StructuredError{
			Kind:    KindToolExecution,
			Message: toolErr.Message,
			Detail:  map[string]any{"subkind": string(toolErr.Subkind)},
		}
	}

	if errors.Is(err, ErrToolNotFound) {
		return &StructuredError{Kind: KindNotFound, Message: err.Error()}
	}
	if errors.Is(err, ErrDuplicateTool) {
		return &StructuredError{Kind: KindDuplicateTool, Message: err.Error()}
	}

	return &StructuredError{Kind: KindInternal, Message: err.Error()}
}

// DecodeError builds the StructuredError for a frame that could not be
// decoded into a Call. Handled entirely inside the offending transport.
func DecodeError(err error) *StructuredError {
	return &StructuredError{
		Kind:    KindTransportDecode,
		Message: fmt.Sprintf("malformed call envelope: %v", err),
	}
}
