package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// Call records one request seen by a Requester.
type Call struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Requester is a playwright.APIRequestContext stand-in that serves every
// request in-process through Handler.
type Requester struct {
	playwright.APIRequestContext

	Handler http.Handler
	// Err, when set, is returned instead of serving the request.
	Err error

	mu        sync.Mutex
	Calls     []Call
	Responses []*Response
}

// NewRequester returns a Requester serving through h.
func NewRequester(h http.Handler) *Requester {
	return &Requester{Handler: h}
}

func (r *Requester) Get(url string, options ...playwright.APIRequestContextGetOptions) (playwright.APIResponse, error) {
	var headers map[string]string
	if len(options) > 0 {
		headers = options[0].Headers
	}
	return r.serve(http.MethodGet, url, headers, nil)
}

func (r *Requester) Post(url string, options ...playwright.APIRequestContextPostOptions) (playwright.APIResponse, error) {
	var headers map[string]string
	var data interface{}
	if len(options) > 0 {
		headers, data = options[0].Headers, options[0].Data
	}
	return r.serve(http.MethodPost, url, headers, data)
}

func (r *Requester) Put(url string, options ...playwright.APIRequestContextPutOptions) (playwright.APIResponse, error) {
	var headers map[string]string
	var data interface{}
	if len(options) > 0 {
		headers, data = options[0].Headers, options[0].Data
	}
	return r.serve(http.MethodPut, url, headers, data)
}

func (r *Requester) Delete(url string, options ...playwright.APIRequestContextDeleteOptions) (playwright.APIResponse, error) {
	var headers map[string]string
	if len(options) > 0 {
		headers = options[0].Headers
	}
	return r.serve(http.MethodDelete, url, headers, nil)
}

// Last returns the most recent call.
func (r *Requester) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Calls) == 0 {
		return Call{}
	}
	return r.Calls[len(r.Calls)-1]
}

func (r *Requester) serve(method, url string, headers map[string]string, data interface{}) (playwright.APIResponse, error) {
	var body []byte
	if data != nil {
		var err error
		if body, err = json.Marshal(data); err != nil {
			return nil, fmt.Errorf("encoding request data: %w", err)
		}
	}

	r.mu.Lock()
	r.Calls = append(r.Calls, Call{Method: method, URL: url, Headers: headers, Body: body})
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.Handler.ServeHTTP(rec, req)
	result := rec.Result()
	defer result.Body.Close()

	respBody, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, err
	}

	respHeaders := map[string]string{}
	for k := range result.Header {
		respHeaders[http.CanonicalHeaderKey(k)] = result.Header.Get(k)
	}

	resp := &Response{status: result.StatusCode, headers: respHeaders, body: respBody}
	r.mu.Lock()
	r.Responses = append(r.Responses, resp)
	r.mu.Unlock()
	return resp, nil
}

// Response is a canned playwright.APIResponse.
type Response struct {
	playwright.APIResponse

	status   int
	headers  map[string]string
	body     []byte
	BodyErr  error
	Disposed bool
}

// NewResponse returns a canned response.
func NewResponse(status int, body string) *Response {
	return &Response{status: status, headers: map[string]string{}, body: []byte(body)}
}

func (r *Response) Status() int                { return r.status }
func (r *Response) Headers() map[string]string { return r.headers }
func (r *Response) Ok() bool                   { return r.status >= 200 && r.status < 300 }
func (r *Response) Dispose() error             { r.Disposed = true; return nil }
func (r *Response) Body() ([]byte, error) {
	if r.BodyErr != nil {
		return nil, r.BodyErr
	}
	return r.body, nil
}
