package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 10 << 20

// HTTPLink is the terminating handler that POSTs operations to the endpoint
func HTTPLink(endpoint string, httpClient *http.Client) Handler {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return func(ctx context.Context, op *Operation) (*Result, error) {
		body, err := json.Marshal(op)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal operation: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		for key, values := range op.Header {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
		}

		var result Result
		if err := json.Unmarshal(raw, &result); err != nil || (result.Data == nil && len(result.Errors) == 0) {
			return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
		}

		return &result, nil
	}
}
