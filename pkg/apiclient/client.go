// Package apiclient is the single HTTP client the console uses to reach the school REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/middleware/requestid"
)

const maxBodyBytes = 8 << 20

// Observer receives timing for every upstream call.
type Observer interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// Config tunes the client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Observer   Observer
}

// Response is a raw upstream reply. Callers that need to inspect non-2xx bodies use DoRaw.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the body, unwrapping a {"data": ...} envelope when present.
func (r *Response) Decode(out interface{}) error {
	if out == nil || r == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	return decodeBody(r.Body, out)
}

// Err converts a non-2xx response into a typed error.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return appErrors.FromStatus(r.Status, errorMessage(r.Body))
}

// Client wraps net/http with token forwarding, envelope decoding and error mapping.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// New constructs a Client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     httpClient,
		logger:   logger,
		observer: cfg.Observer,
	}
}

// Get issues a GET and decodes the reply into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do performs a request and maps non-2xx replies to typed errors.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.DoRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected response from school API")
	}
	return nil
}

// DoRaw performs a request and returns the reply regardless of status.
// Only transport failures are returned as errors.
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values, body interface{}) (*Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.HeaderKey, reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(method, path, http.StatusBadGateway, duration)
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("latency", duration),
			zap.Error(err),
		)
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(method, path, resp.StatusCode, duration)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to read response from school API")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("upstream request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("latency", duration),
		)
	}

	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

func (c *Client) observe(method, path string, status int, duration time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstreamRequest(method, routeLabel(path), status, duration)
}

// routeLabel keeps metric cardinality bounded by collapsing ids to ":id".
func routeLabel(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		if i == 0 {
			continue
		}
		if looksLikeID(segment) {
			segments[i] = ":id"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func looksLikeID(segment string) bool {
	if segment == "" {
		return false
	}
	digits := 0
	for _, r := range segment {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits > 0 && (digits == len(segment) || len(segment) >= 12)
}

func decodeBody(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			if data, ok := envelope["data"]; ok && len(data) > 0 {
				return json.Unmarshal(data, out)
			}
		}
	}
	return json.Unmarshal(trimmed, out)
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	if len(body.Error) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(body.Error, &text); err == nil {
		return text
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

// PathJoin builds an escaped path from segments, e.g. PathJoin("schedules", id, "entries").
func PathJoin(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return "/" + strings.Join(escaped, "/")
}

// String renders the response for debugging.
func (r *Response) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d %s", r.Status, string(r.Body))
}
