// Package gateway wraps the club REST API in typed calls. Calls never return
// errors: every failure is folded into a Result with Success set to false.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Result[T any] struct {
	Success bool
	Message string
	Status  int
	Data    T
}

func failure[T any](status int, format string, args ...interface{}) Result[T] {
	return Result[T]{Success: false, Status: status, Message: fmt.Sprintf(format, args...)}
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

// File is one part of a multipart upload.
type File struct {
	Name    string
	Content io.Reader
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token; an empty token signs out.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// key selects the payload field; empty decodes the whole body.
	key string
}

func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func (c *Client) raw(ctx context.Context, r request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.url(r.path, r.query), r.body)
	if err != nil {
		return nil, err
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

func do[T any](ctx context.Context, c *Client, r request) Result[T] {
	resp, err := c.raw(ctx, r)
	if err != nil {
		return failure[T](0, "request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[T](resp.StatusCode, "failed to read response: %v", err)
	}

	var env envelope
	envErr := json.Unmarshal(body, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if envErr == nil && env.Message != "" {
			return failure[T](resp.StatusCode, "%s", env.Message)
		}
		return failure[T](resp.StatusCode, "%s", http.StatusText(resp.StatusCode))
	}
	if envErr != nil {
		return failure[T](resp.StatusCode, "invalid response from server")
	}
	if env.Success != nil && !*env.Success {
		return failure[T](resp.StatusCode, "%s", env.Message)
	}

	result := Result[T]{Success: true, Status: resp.StatusCode, Message: env.Message}
	payload := body
	if r.key != "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return failure[T](resp.StatusCode, "invalid response from server")
		}
		var ok bool
		if payload, ok = fields[r.key]; !ok {
			return failure[T](resp.StatusCode, "response is missing %q", r.key)
		}
	}
	if err := json.Unmarshal(payload, &result.Data); err != nil {
		return failure[T](resp.StatusCode, "invalid response from server")
	}
	return result
}

// form builds a multipart body from plain fields and files.
type form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

func newForm() *form {
	f := &form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err == nil {
		f.err = f.writer.WriteField(name, value)
	}
}

func (f *form) file(field string, file File) {
	if f.err != nil || file.Content == nil {
		return
	}
	part, err := f.writer.CreateFormFile(field, file.Name)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = io.Copy(part, file.Content)
}

func (f *form) close() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.writer.Close(); err != nil {
		return nil, "", err
	}
	return &f.buf, f.writer.FormDataContentType(), nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func pageQuery(q url.Values, page, limit int) {
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
}
