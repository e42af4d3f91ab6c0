package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// requestTimeout bounds every call; there is no retry, a failed request is
// only retried by explicit user resubmission.
const requestTimeout = 30 * time.Second

// BasicAuth holds optional credentials sent with every request.
type BasicAuth struct {
	Username string
	Password string
}

// APIError is the single failure shape every call reports. Message is
// resolved from the server's "error" field, then its "message" field, then
// the transport error text.
type APIError struct {
	StatusCode int // zero when the failure never produced a response
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying transport error, if any, so context
// cancellation stays detectable through errors.Is.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Client is a configured HTTP client for the receipts backend. One instance
// is constructed at startup and shared; it is safe for concurrent use.
type Client struct {
	baseURL    string
	basicAuth  BasicAuth
	httpClient *http.Client
}

// NewClient creates a Client with the default 30-second timeout.
func NewClient(baseURL string, basicAuth BasicAuth) *Client {
	return NewClientWithHTTPClient(baseURL, basicAuth, &http.Client{Timeout: requestTimeout})
}

// NewClientWithHTTPClient creates a Client with a custom http.Client for testing.
func NewClientWithHTTPClient(baseURL string, basicAuth BasicAuth, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		basicAuth:  basicAuth,
		httpClient: httpClient,
	}
}

// get issues a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: err}
	}
	return c.do(req, "")
}

// postJSON issues a POST request. A nil payload sends no body.
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encoding request: %v", err), Err: err}
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: err}
	}
	return c.do(req, "")
}

// postMultipart issues a POST request carrying one file under the "file"
// form field.
func (c *Client) postMultipart(ctx context.Context, path string, filename string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("building upload form: %v", err), Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("building upload form: %v", err), Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("building upload form: %v", err), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Err: err}
	}
	return c.do(req, writer.FormDataContentType())
}

// delete issues a DELETE request and discards the response body.
func (c *Client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return &APIError{Message: err.Error(), Err: err}
	}
	_, err = c.do(req, "")
	return err
}

// do sets the fixed headers, runs the request, and normalizes every failure
// into an *APIError. The Content-Type defaults to JSON unless a multipart
// builder supplied its boundary type.
func (c *Client) do(req *http.Request, contentType string) ([]byte, error) {
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.basicAuth.Username != "" || c.basicAuth.Password != "" {
		req.SetBasicAuth(c.basicAuth.Username, c.basicAuth.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: transportMessage(err), Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: serverMessage(resp, body)}
	}
	return body, nil
}

// transportMessage strips the url.Error wrapper so the user sees
// "context canceled" rather than the full request line.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// serverMessage resolves the message for a non-2xx response: the body's
// "error" field, then its "message" field, then the HTTP status text.
func serverMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return resp.Status
}
