// Package protocol defines the wire envelopes shared by both transports.
// A call envelope names a tool, carries its raw arguments, and a correlation
// id; the response envelope echoes the id with either a result or a
// structured error. The shapes are identical over HTTP and stdio.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/macroman/macroman/internal/tool"
)

// CallEnvelope is one inbound call frame.
type CallEnvelope struct {
	ID   string         `json:"id,omitempty"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ResponseEnvelope is one outbound response frame. Exactly one of Result and
// Error is set.
type ResponseEnvelope struct {
	ID     string                `json:"id"`
	Result any                   `json:"result,omitempty"`
	Error  *tool.StructuredError `json:"error,omitempty"`
}

// NewCorrelationID returns a fresh ULID. Used when the caller supplied no id
// of its own; ULIDs sort by time, which keeps logs readable.
func NewCorrelationID() string {
	return ulid.Make().String()
}

// DecodeCall parses a raw frame into a Call. A missing tool name or
// non-object payload is a decode failure, handled inside the transport — the
// dispatcher is never involved. The caller's id is preserved when present;
// otherwise a server-assigned ULID is attached.
func DecodeCall(data []byte) (tool.Call, error) {
	var envelope CallEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return tool.Call{}, fmt.Errorf("decode call envelope: %w", err)
	}
	if envelope.Tool == "" {
		return tool.Call{}, fmt.Errorf("call envelope missing tool name")
	}
	if envelope.ID == "" {
		envelope.ID = NewCorrelationID()
	}
	return tool.Call{
		CorrelationID: envelope.ID,
		Tool:          envelope.Tool,
		Args:          envelope.Args,
	}, nil
}

// EncodeOutcome renders an Outcome as its response envelope.
func EncodeOutcome(outcome tool.Outcome) ResponseEnvelope {
	return ResponseEnvelope{
		ID:     outcome.CorrelationID,
		Result: outcome.Result,
		Error:  outcome.Err,
	}
}

// EncodeMarshalFailure renders the fallback response for an outcome whose
// payload could not be serialized. The fallback envelope carries only plain
// strings, so it always marshals; the caller still gets exactly one response
// for the correlation id.
func EncodeMarshalFailure(id string, err error) ResponseEnvelope {
	return ResponseEnvelope{
		ID: id,
		Error: &tool.StructuredError{
			Kind:          tool.KindInternal,
			Message:       fmt.Sprintf("tool result is not serializable: %v", err),
			CorrelationID: id,
		},
	}
}

// EncodeDecodeFailure renders the response for a frame that never became a
// Call. id may be empty when the frame was unparseable.
func EncodeDecodeFailure(id string, err error) ResponseEnvelope {
	structured := tool.DecodeError(err)
	structured.CorrelationID = id
	return ResponseEnvelope{ID: id, Error: structured}
}
