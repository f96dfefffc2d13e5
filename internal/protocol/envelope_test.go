package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macroman/macroman/internal/tool"
)

func TestDecodeCall(t *testing.T) {
	t.Parallel()

	t.Run("well-formed frame", func(t *testing.T) {
		t.Parallel()

		call, err := DecodeCall([]byte(`{"id":"req-1","tool":"add_numbers","args":{"a":5,"b":3}}`))
		require.NoError(t, err)
		assert.Equal(t, "req-1", call.CorrelationID)
		assert.Equal(t, "add_numbers", call.Tool)
		assert.Equal(t, 5.0, call.Args["a"])
	})

	t.Run("missing id gets a generated one", func(t *testing.T) {
		t.Parallel()

		call, err := DecodeCall([]byte(`{"tool":"echo_message","args":{"message":"hi"}}`))
		require.NoError(t, err)
		assert.NotEmpty(t, call.CorrelationID)
	})

	t.Run("missing tool name is a decode failure", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeCall([]byte(`{"id":"req-2","args":{}}`))
		require.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeCall([]byte(`{"tool": "add_numbers"`))
		require.Error(t, err)
	})

	t.Run("non-object payload", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeCall([]byte(`[1,2,3]`))
		require.Error(t, err)
	})
}

func TestEncodeOutcome(t *testing.T) {
	t.Parallel()

	t.Run("success carries result only", func(t *testing.T) {
		t.Parallel()

		envelope := EncodeOutcome(tool.Outcome{CorrelationID: "req-3", Result: 8.0})
		raw, err := json.Marshal(envelope)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "req-3", decoded["id"])
		assert.Equal(t, 8.0, decoded["result"])
		assert.NotContains(t, decoded, "error")
	})

	t.Run("failure carries error only", func(t *testing.T) {
		t.Parallel()

		envelope := EncodeOutcome(tool.Outcome{
			CorrelationID: "req-4",
			Err: &tool.StructuredError{
				Kind:          tool.KindNotFound,
				Message:       "tool not found: nope",
				CorrelationID: "req-4",
			},
		})
		raw, err := json.Marshal(envelope)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.NotContains(t, decoded, "result")
		errObj, ok := decoded["error"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "not_found", errObj["kind"])
	})
}

func TestEncodeDecodeFailure(t *testing.T) {
	t.Parallel()

	envelope := EncodeDecodeFailure("req-5", assert.AnError)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, tool.KindTransportDecode, envelope.Error.Kind)
	assert.Equal(t, "req-5", envelope.Error.CorrelationID)
	assert.Equal(t, "req-5", envelope.ID)
}

func TestEncodeMarshalFailure_AlwaysSerializable(t *testing.T) {
	t.Parallel()

	envelope := EncodeMarshalFailure("req-6", assert.AnError)
	raw, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "req-6", decoded["id"])
	errObj, ok := decoded["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "internal", errObj["kind"])
}

func TestNewCorrelationID_Unique(t *testing.T) {
	t.Parallel()

	a, b := NewCorrelationID(), NewCorrelationID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 26)
}
