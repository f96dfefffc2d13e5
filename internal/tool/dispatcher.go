package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/macroman/macroman/internal/infra/eventbus"
)

// Call is one request to invoke a tool: the name, the raw argument mapping
// as received, and the correlation identifier assigned to the request.
type Call struct {
	CorrelationID string
	Tool          string
	Args          map[string]any
}

// Outcome is the result of exactly one Call: a success payload or a
// StructuredError, never both.
type Outcome struct {
	CorrelationID string
	Result        any
	Err           *StructuredError
}

// Dispatcher resolves a Call against the Registry, validates its arguments,
// invokes the executor under a per-call deadline, and normalizes any failure.
// It holds no transport state: both adapters share one instance.
type Dispatcher struct {
	registry *Registry
	timeout  time.Duration
	log      *slog.Logger
	bus      eventbus.EventBus
}

// NewDispatcher creates a Dispatcher. timeout bounds each executor
// invocation; bus may be nil when call accounting is not wanted.
func NewDispatcher(registry *Registry, timeout time.Duration, log *slog.Logger, bus eventbus.EventBus) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		timeout:  timeout,
		log:      log.With("component", "dispatcher"),
		bus:      bus,
	}
}

// Dispatch produces the single Outcome for call. Lookup and validation
// failures never reach the tool body; tool-body failures are captured here
// and never terminate the process.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) Outcome {
	start := time.Now()
	outcome := d.dispatch(ctx, call)
	outcome.CorrelationID = call.CorrelationID
	if outcome.Err != nil {
		outcome.Err.CorrelationID = call.CorrelationID
	}

	d.publish(call, outcome, time.Since(start))
	return outcome
}

func (d *Dispatcher) dispatch(ctx context.Context, call Call) Outcome {
	descriptor, executor, err := d.registry.Lookup(call.Tool)
	if err != nil {
		return Outcome{Err: Normalize(err)}
	}

	args, err := ValidateArgs(descriptor, call.Args)
	if err != nil {
		return Outcome{Err: Normalize(err)}
	}

	result, err := d.invoke(ctx, call.Tool, executor, args)
	if err != nil {
		return Outcome{Err: Normalize(err)}
	}
	return Outcome{Result: result}
}

// invoke runs the executor under the configured deadline. An invocation that
// overruns is abandoned, not interrupted: the goroutine may finish in the
// background, but its result is discarded and the call reports a timeout.
func (d *Dispatcher) invoke(ctx context.Context, name string, executor Executor, args Args) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type result struct {
		payload any
		err     error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("tool panicked", "tool", name, "panic", r)
				done <- result{err: &ToolError{
					Subkind: SubkindInternal,
					Message: fmt.Sprintf("tool %q panicked: %v", name, r),
				}}
			}
		}()
		payload, err := executor.Execute(ctx, args)
		done <- result{payload: payload, err: err}
	}()

	select {
	case r := <-done:
		return r.payload, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &StructuredError{
				Kind:    KindTimeout,
				Message: fmt.Sprintf("tool %q exceeded the %s deadline", name, d.timeout),
			}
		}
		return nil, &StructuredError{
			Kind:    KindInternal,
			Message: fmt.Sprintf("call to tool %q canceled: %v", name, ctx.Err()),
		}
	}
}

func (d *Dispatcher) publish(call Call, outcome Outcome, elapsed time.Duration) {
	if outcome.Err != nil {
		d.log.Warn("call failed",
			"tool", call.Tool,
			"correlation_id", call.CorrelationID,
			"kind", string(outcome.Err.Kind),
			"duration", elapsed)
	} else {
		d.log.Debug("call completed",
			"tool", call.Tool,
			"correlation_id", call.CorrelationID,
			"duration", elapsed)
	}

	if d.bus == nil {
		return
	}
	event := eventbus.CallEvent{
		CorrelationID: call.CorrelationID,
		Tool:          call.Tool,
		Duration:      elapsed,
	}
	if outcome.Err != nil {
		event.ErrorKind = string(outcome.Err.Kind)
	}
	d.bus.Publish(eventbus.TopicCallCompleted, event)
}
