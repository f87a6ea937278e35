package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/resume-studio/internal/metrics"
	"github.com/jonathan/resume-studio/internal/types"
)

const maxResponseBytes = 1 << 20

// Invoker sends one action to the gateway.
type Invoker interface {
	Invoke(ctx context.Context, action types.GatewayAction, payload Payload) (string, error)
}

// Client calls a gateway over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *metrics.Recorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientMetrics records every call.
func WithClientMetrics(r *metrics.Recorder) ClientOption {
	return func(c *Client) { c.metrics = r }
}

// NewClient creates a client for the gateway at url.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke posts {action, payload} and returns the result text.
// Every failure is a *Error.
func (c *Client) Invoke(ctx context.Context, action types.GatewayAction, payload Payload) (result string, err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveGateway(string(action), err == nil, time.Since(start))
	}()

	body, err := json.Marshal(Request{Action: action, Payload: payload})
	if err != nil {
		return "", &Error{Message: "failed to encode gateway request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Message: "failed to create gateway request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Message: err.Error(), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &Error{StatusCode: resp.StatusCode, Message: "failed to read gateway response", Cause: err}
	}

	var decoded Response
	decodeErr := json.Unmarshal(data, &decoded)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && decoded.Error != "" {
			return "", &Error{StatusCode: resp.StatusCode, Message: decoded.Error}
		}
		return "", statusError(resp.StatusCode)
	}
	if decodeErr != nil {
		return "", &Error{StatusCode: resp.StatusCode, Message: "invalid gateway response", Cause: decodeErr}
	}
	return decoded.Result, nil
}

// Unavailable is an Invoker for deployments without a configured assistant.
type Unavailable struct{}

// Invoke always fails with a 503 gateway error.
func (Unavailable) Invoke(context.Context, types.GatewayAction, Payload) (string, error) {
	return "", &Error{StatusCode: http.StatusServiceUnavailable, Message: "The assistant is not configured on this server."}
}
