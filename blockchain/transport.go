// Package blockchain holds the RPC transport shared by the chain adapters.
package blockchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout is the HTTP timeout used when none is configured.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps node responses read into memory.
const maxResponseSize = 4 << 20

// ErrNotFound is returned by GetJSON when the node answers 404.
var ErrNotFound = errors.New("resource not found")

// NewHTTPClient returns an instrumented HTTP client for talking to chain nodes.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// DialRPC creates a JSON-RPC client for rpcURL that sends requests through httpClient.
//
// HTTP endpoints are dialed lazily, so no request is made until the first call.
func DialRPC(ctx context.Context, rpcURL string, httpClient *http.Client) (*rpc.Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("RPC URL is required")
	}

	client, err := rpc.DialOptions(ctx, rpcURL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC %s: %w", rpcURL, err)
	}

	return client, nil
}

// GetJSON fetches url and decodes the JSON body into out.
func GetJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node returned non-200 status: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response JSON: %w", err)
	}

	return nil
}
