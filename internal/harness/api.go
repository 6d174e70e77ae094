package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eharness/internal/logging"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// Requester is the part of playwright.APIRequestContext the API executor
// drives.
type Requester interface {
	Get(url string, options ...playwright.APIRequestContextGetOptions) (playwright.APIResponse, error)
	Post(url string, options ...playwright.APIRequestContextPostOptions) (playwright.APIResponse, error)
	Put(url string, options ...playwright.APIRequestContextPutOptions) (playwright.APIResponse, error)
	Delete(url string, options ...playwright.APIRequestContextDeleteOptions) (playwright.APIResponse, error)
}

// Response is a fully read HTTP response. Its status is not interpreted.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response body (status %d): %w", r.Status, err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// IsEmpty reports whether the body is empty or whitespace.
func (r *Response) IsEmpty() bool {
	return len(bytes.TrimSpace(r.Body)) == 0
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// API sends requests through one HTTP request context.
type API struct {
	requester Requester
	logger    logging.Logger
}

// NewAPI binds an API executor to requester.
func NewAPI(requester Requester, logger logging.Logger) *API {
	return &API{requester: requester, logger: logger}
}

// Get sends a GET request to endpoint.
func (a *API) Get(ctx context.Context, endpoint, description string) (*Response, error) {
	return a.do(ctx, http.MethodGet, endpoint, description, func(headers map[string]string, timeout *float64) (playwright.APIResponse, error) {
		return a.requester.Get(endpoint, playwright.APIRequestContextGetOptions{Headers: headers, Timeout: timeout})
	})
}

// Post sends body as JSON to endpoint.
func (a *API) Post(ctx context.Context, endpoint string, body any, description string) (*Response, error) {
	return a.do(ctx, http.MethodPost, endpoint, description, func(headers map[string]string, timeout *float64) (playwright.APIResponse, error) {
		return a.requester.Post(endpoint, playwright.APIRequestContextPostOptions{Data: body, Headers: headers, Timeout: timeout})
	})
}

// Put sends body as JSON to endpoint.
func (a *API) Put(ctx context.Context, endpoint string, body any, description string) (*Response, error) {
	return a.do(ctx, http.MethodPut, endpoint, description, func(headers map[string]string, timeout *float64) (playwright.APIResponse, error) {
		return a.requester.Put(endpoint, playwright.APIRequestContextPutOptions{Data: body, Headers: headers, Timeout: timeout})
	})
}

// Delete sends a DELETE request to endpoint.
func (a *API) Delete(ctx context.Context, endpoint, description string) (*Response, error) {
	return a.do(ctx, http.MethodDelete, endpoint, description, func(headers map[string]string, timeout *float64) (playwright.APIResponse, error) {
		return a.requester.Delete(endpoint, playwright.APIRequestContextDeleteOptions{Headers: headers, Timeout: timeout})
	})
}

type sendFunc func(headers map[string]string, timeout *float64) (playwright.APIResponse, error)

func (a *API) do(ctx context.Context, method, endpoint, description string, send sendFunc) (*Response, error) {
	requestID := uuid.NewString()
	a.logger.Info(fmt.Sprintf("Sending %s request to %s: %s", method, endpoint, description), "request_id", requestID)

	fail := func(err error) (*Response, error) {
		a.logger.Error(fmt.Sprintf("%s request to %s failed", method, endpoint), "request_id", requestID, "error", err)
		return nil, &TransportError{Method: method, Endpoint: endpoint, Description: description, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	var timeout *float64
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fail(context.DeadlineExceeded)
		}
		timeout = ms(remaining)
	}

	raw, err := send(map[string]string{RequestIDHeader: requestID}, timeout)
	if err != nil {
		return fail(err)
	}
	defer raw.Dispose()

	body, err := raw.Body()
	if err != nil {
		return fail(fmt.Errorf("reading response body: %w", err))
	}

	resp := &Response{Status: raw.Status(), Headers: raw.Headers(), Body: body}
	a.logger.Info(fmt.Sprintf("%s %s responded with status %d", method, endpoint, resp.Status), "request_id", requestID)
	return resp, nil
}
