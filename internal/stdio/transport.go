// Package stdio is the bidirectional-stream transport adapter: discrete call
// frames on one continuous input stream, response frames on one continuous
// output stream. The stream spans the whole process run; correlation ids
// match overlapping responses to their calls.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/macroman/macroman/internal/protocol"
	"github.com/macroman/macroman/internal/tool"
)

// maxFrameSize bounds one newline-delimited frame (1 MiB).
const maxFrameSize = 1 << 20

// Transport reads newline-delimited JSON call frames from in and writes
// response frames to out. Frames are dispatched concurrently; a write mutex
// keeps each outgoing frame atomic on the shared stream.
type Transport struct {
	dispatcher *tool.Dispatcher
	in         io.Reader
	out        io.Writer
	log        *slog.Logger

	writeMu sync.Mutex
}

// New creates a stdio Transport. in and out are normally os.Stdin and
// os.Stdout; tests substitute pipes.
func New(dispatcher *tool.Dispatcher, in io.Reader, out io.Writer, log *slog.Logger) *Transport {
	return &Transport{
		dispatcher: dispatcher,
		in:         in,
		out:        out,
		log:        log.With("component", "stdio"),
	}
}

// Run serves the stream until the input closes or ctx is canceled. It
// returns once every in-flight call has written its response. Malformed
// frames are answered with a transport-decode error on the spot; the
// dispatcher never sees them.
func (t *Transport) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	var wg sync.WaitGroup
	defer wg.Wait()

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame := bytes.TrimSpace(scanner.Bytes())
		if len(frame) == 0 {
			continue
		}

		call, err := protocol.DecodeCall(frame)
		if err != nil {
			t.log.Debug("rejected malformed frame", "error", err)
			t.writeFrame(protocol.EncodeDecodeFailure(peekID(frame), err))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := t.dispatcher.Dispatch(ctx, call)
			t.writeFrame(protocol.EncodeOutcome(outcome))
		}()
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

// writeFrame marshals one response envelope and appends the newline
// delimiter under the write lock. A payload that cannot be serialized is
// replaced with an internal-error envelope; every call gets its frame.
func (t *Transport) writeFrame(envelope protocol.ResponseEnvelope) {
	data, err := json.Marshal(envelope)
	if err != nil {
		t.log.Error("response not serializable", "error", err, "correlation_id", envelope.ID)
		if data, err = json.Marshal(protocol.EncodeMarshalFailure(envelope.ID, err)); err != nil {
			return
		}
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := t.out.Write(append(data, '\n')); err != nil {
		t.log.Error("failed to write response frame", "error", err, "correlation_id", envelope.ID)
	}
}

// peekID best-effort extracts the correlation id from a frame that failed
// full decoding, so the error response can still be matched by the caller.
func peekID(frame []byte) string {
	var partial struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(frame, &partial); err != nil {
		return ""
	}
	return partial.ID
}
