// Package api is the HTTP transport adapter: one call per POST request,
// response envelope in the body, no session state between requests.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/macroman/macroman/internal/protocol"
	"github.com/macroman/macroman/internal/tool"
)

// maxCallBody bounds one call envelope. Tool payloads are small JSON
// objects; a megabyte is generous.
const maxCallBody = 1 << 20

// NewRouter creates and configures the chi router for the HTTP transport.
func NewRouter(dispatcher *tool.Dispatcher, registry *tool.Registry, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	h := &callHandler{
		dispatcher: dispatcher,
		registry:   registry,
		log:        log.With("component", "http"),
	}

	// Health check — unauthenticated, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	r.Post("/call", h.Call)
	r.Get("/tools", h.ListTools)

	return r
}

type callHandler struct {
	dispatcher *tool.Dispatcher
	registry   *tool.Registry
	log        *slog.Logger
}

// Call decodes one call envelope, dispatches it, and answers with the
// response envelope. Tool-level failures always ride a well-formed 200
// response; non-2xx status is reserved for envelopes that never became a
// Call.
func (h *callHandler) Call(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallBody))
	if err != nil {
		h.writeEnvelope(w, http.StatusBadRequest, protocol.EncodeDecodeFailure("", err))
		return
	}

	call, err := protocol.DecodeCall(body)
	if err != nil {
		h.log.Debug("rejected malformed envelope", "error", err)
		h.writeEnvelope(w, http.StatusBadRequest, protocol.EncodeDecodeFailure("", err))
		return
	}

	// r.Context() ends on client disconnect, which abandons the wait for
	// this outcome without touching other in-flight calls.
	outcome := h.dispatcher.Dispatch(r.Context(), call)
	h.writeEnvelope(w, http.StatusOK, protocol.EncodeOutcome(outcome))
}

// writeEnvelope serializes the response envelope before any header is
// written, so a payload that cannot be marshaled degrades to an
// internal-error envelope instead of a 200 with an empty body.
func (h *callHandler) writeEnvelope(w http.ResponseWriter, statusCode int, envelope protocol.ResponseEnvelope) {
	data, err := json.Marshal(envelope)
	if err != nil {
		h.log.Error("response not serializable", "error", err, "correlation_id", envelope.ID)
		if data, err = json.Marshal(protocol.EncodeMarshalFailure(envelope.ID, err)); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data) //nolint:errcheck
}

// ListTools answers with the same payload as the reserved discovery call.
func (h *callHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": tool.Describe(h.registry)})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
