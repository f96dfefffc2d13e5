package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/macroman/macroman/internal/tool"
)

// serviceClient talks to the companion email/calendar service. The base URL
// is opaque configuration; the client only knows the three endpoints the
// tools use.
type serviceClient struct {
	baseURL string
	http    *http.Client
}

func newServiceClient(baseURL string, httpClient *http.Client) *serviceClient {
	return &serviceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// post sends payload to the service endpoint and decodes the JSON response.
// Connection failures, timeouts, and non-200 statuses are all upstream
// failures — the service being down is never this server's internal error.
func (c *serviceClient) post(ctx context.Context, path string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, tool.WrapToolError(tool.SubkindInternal, err, "marshal request for %s", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, tool.WrapToolError(tool.SubkindInternal, err, "build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, tool.WrapToolError(tool.SubkindUpstreamError, err, "service request to %s timed out", path)
		}
		return nil, tool.WrapToolError(tool.SubkindUpstreamError, err, "could not reach service at %s", c.baseURL)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, tool.WrapToolError(tool.SubkindUpstreamError, err, "read service response from %s", path)
	}

	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("service returned status %d for %s", resp.StatusCode, path)
		var detail struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &detail) == nil && detail.Message != "" {
			message += ": " + detail.Message
		}
		return nil, tool.NewToolError(tool.SubkindUpstreamError, "%s", message)
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, tool.WrapToolError(tool.SubkindUpstreamError, err, "invalid JSON from service at %s", path)
	}
	return result, nil
}
