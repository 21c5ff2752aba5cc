package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// defaultFailure is the message used when an error response carries no detail.
const defaultFailure = "Request failed"

// maxResponseBody caps how much of a response body is read.
const maxResponseBody = 10 << 20

// Request describes one API call.
type Request struct {
	Method string // defaults to GET
	Path   string // relative to the client's base URL
	// Body is JSON-encoded when non-nil. Ignored for GET.
	Body any
	// Multipart is sent as-is with its own boundary content type and wins over Body.
	Multipart *Multipart
	// Auth attaches the bearer token when one exists. With no token the
	// request goes out unauthenticated.
	Auth bool
}

// Result is the normalized outcome of a dispatched call. Exactly one of Data
// (Success true) or Error (Success false) is meaningful.
type Result struct {
	Success    bool
	Data       json.RawMessage
	Error      string
	StatusCode int // 0 when no response was received
}

// Err converts a failed Result into an error. HTTP failures become *HTTPError.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	if r.StatusCode >= 400 {
		return &HTTPError{StatusCode: r.StatusCode, Message: r.Error}
	}
	return errors.New(r.Error)
}

// Decode unmarshals Data into out, or returns Err for failures.
func (r Result) Decode(out any) error {
	if !r.Success {
		return r.Err()
	}
	if out == nil || len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Indent renders the result the way the response panel shows it: the data on
// success, {"error": ...} on failure.
func (r Result) Indent() string {
	var v any = map[string]string{"error": r.Error}
	if r.Success {
		if len(r.Data) == 0 {
			return "null"
		}
		v = r.Data
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(r.Data)
	}
	return string(out)
}

func failure(status int, msg string) Result {
	return Result{Error: msg, StatusCode: status}
}

// Dispatch issues the request and never returns a raw error: transport
// failures, non-2xx statuses and unparseable bodies all become a failed Result.
func (c *Client) Dispatch(ctx context.Context, r Request) Result {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var (
		reqBody     io.Reader
		contentType string
	)
	switch {
	case r.Multipart != nil:
		body, err := r.Multipart.reader()
		if err != nil {
			return failure(0, err.Error())
		}
		reqBody = body
		contentType = r.Multipart.ContentType()
	case r.Body != nil && method != http.MethodGet:
		data, err := json.Marshal(r.Body)
		if err != nil {
			return failure(0, fmt.Sprintf("marshal body: %v", err))
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+r.Path, reqBody)
	if err != nil {
		return failure(0, err.Error())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if r.Auth {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	res := c.send(req)
	c.logger.DebugContext(ctx, "api request",
		"method", method,
		"path", r.Path,
		"request_id", requestID,
		"status", res.StatusCode,
		"success", res.Success,
		"duration", time.Since(start),
	)
	return res
}

func (c *Client) send(req *http.Request) Result {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(0, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return failure(resp.StatusCode, fmt.Sprintf("read body: %v", err))
	}
	raw = bytes.TrimSpace(raw)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var data json.RawMessage
		if err := json.Unmarshal(raw, &data); err != nil {
			return failure(resp.StatusCode, err.Error())
		}
		return Result{Success: true, Data: data, StatusCode: resp.StatusCode}
	}

	if len(raw) == 0 {
		return failure(resp.StatusCode, defaultFailure)
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return failure(resp.StatusCode, err.Error())
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return failure(resp.StatusCode, defaultFailure)
	}
	return failure(resp.StatusCode, detailMessage(obj["detail"]))
}

// detailMessage flattens a `detail` value. Plain strings pass through;
// validation error lists are joined by their msg fields.
func detailMessage(v any) string {
	switch d := v.(type) {
	case nil:
		return defaultFailure
	case string:
		if d == "" {
			return defaultFailure
		}
		return d
	case []any:
		parts := make([]string, 0, len(d))
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok {
					parts = append(parts, locPrefix(m["loc"])+msg)
					continue
				}
			}
			parts = append(parts, fmt.Sprint(item))
		}
		if len(parts) == 0 {
			return defaultFailure
		}
		return strings.Join(parts, "; ")
	default:
		out, err := json.Marshal(d)
		if err != nil {
			return defaultFailure
		}
		return string(out)
	}
}

// locPrefix renders a validation error location like ["body","email"] as "email: ".
func locPrefix(v any) string {
	loc, ok := v.([]any)
	if !ok || len(loc) == 0 {
		return ""
	}
	return fmt.Sprint(loc[len(loc)-1]) + ": "
}
