// Package tools holds the built-in tool executors: stateless wrappers
// around local OS calls or outbound HTTP calls to the companion service.
// They satisfy the executor contract and carry no framing or transport
// logic.
package tools

import (
	"net/http"
	"time"

	"github.com/macroman/macroman/internal/tool"
)

// Options carries the opaque configuration individual tools need. The core
// never interprets these values.
type Options struct {
	// ServiceURL is the base URL of the email/calendar service.
	ServiceURL string

	// HTTPClient overrides the outbound client, for tests. Nil means a
	// default client with a 30-second timeout.
	HTTPClient *http.Client
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// RegisterAll registers every built-in tool. Called once at startup, before
// any transport accepts requests; the first registration failure aborts.
func RegisterAll(registry *tool.Registry, opts Options) error {
	service := newServiceClient(opts.ServiceURL, opts.client())

	for _, register := range []func(*tool.Registry) error{
		RegisterBasicTools,
		RegisterFileTools,
		RegisterSystemTools,
		RegisterExecTools,
	} {
		if err := register(registry); err != nil {
			return err
		}
	}
	if err := RegisterEmailTools(registry, service); err != nil {
		return err
	}
	return RegisterCalendarTools(registry, service)
}
