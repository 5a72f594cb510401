// Package base provides the shared HTTP transport and request validation
// used by the gateway adapters.
package base

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"paybridge/internal/gateway"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// HTTPClient posts provider requests and hands back whatever body the
// processor returned, 2xx or not. Downstream classification depends on
// parsing error bodies, so a non-2xx status is never an error here; only
// connection-level failures are, and only those are retried.
type HTTPClient struct {
	client     *http.Client
	name       string // gateway name for logging
	maxRetries uint64
}

// NewHTTPClient creates a transport for one gateway adapter.
func NewHTTPClient(gatewayName string, timeoutSec int) *HTTPClient {
	if timeoutSec == 0 {
		timeoutSec = 30
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		name:       gatewayName,
		maxRetries: 2,
	}
}

// Response is the raw outcome of a dispatch.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess checks for a 2xx status code.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Document parses the body as a JSON object. An empty or blank body parses
// to an empty document rather than failing.
func (r *Response) Document() (gateway.Document, error) {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return gateway.Document{}, nil
	}
	var doc gateway.Document
	if err := json.Unmarshal(r.Body, &doc); err != nil {
		return nil, &gateway.Error{
			Code:    gateway.ErrCodeMalformedResponse,
			Message: fmt.Sprintf("response body is not a JSON object (status %d)", r.StatusCode),
			Err:     err,
		}
	}
	return doc, nil
}

// PostJSON posts a JSON payload.
func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, payload any, headers map[string]string) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}
	return c.post(ctx, endpoint, "application/json", body, headers)
}

// PostForm posts a URL-encoded form body.
func (c *HTTPClient) PostForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string) (*Response, error) {
	return c.post(ctx, endpoint, "application/x-www-form-urlencoded", []byte(form.Encode()), headers)
}

func (c *HTTPClient) post(ctx context.Context, endpoint, contentType string, body []byte, headers map[string]string) (*Response, error) {
	log.Debug().
		Str("gateway", c.name).
		Str("method", http.MethodPost).
		Str("url", endpoint).
		Msg("making HTTP request")

	var resp *http.Response
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("User-Agent", "PayBridge/"+c.name)
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err = c.client.Do(req)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		log.Error().
			Str("gateway", c.name).
			Str("url", endpoint).
			Err(err).
			Msg("HTTP request failed")
		return nil, &gateway.Error{
			Code:    gateway.ErrCodeTransport,
			Message: "HTTP request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &gateway.Error{
			Code:    gateway.ErrCodeTransport,
			Message: "failed to read response body",
			Err:     err,
		}
	}

	log.Debug().
		Str("gateway", c.name).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(respBody)).
		Msg("received HTTP response")

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// BasicAuth builds a Basic Authorization header value from a user:secret
// pair.
func BasicAuth(user, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+secret))
}
