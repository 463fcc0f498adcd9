// Package api is the single path through which panelctl talks to the
// dashboard API.
//
// Every call attaches the active session's bearer token, normalizes the
// response into a {data: ...} envelope, and converts every failure into an
// *Error. A 401 from any call ends the session before the error is
// returned, so a rejected token is never reused.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Session supplies the bearer token and is told to end itself when the API
// rejects it.
type Session interface {
	ActiveToken() string
	Logout(ctx context.Context)
}

// RequestOptions shapes a single call.
type RequestOptions struct {
	// Method defaults to GET.
	Method string

	// Header values replace the defaults (Accept and Content-Type are
	// application/json) key by key; unspecified defaults are kept.
	Header http.Header

	Body io.Reader

	// Token, when set, is sent instead of the session's active token.
	Token string
}

// Client calls the dashboard API.
type Client struct {
	baseURL string
	session Session
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithCookieJar attaches jar to the HTTP client so the API host receives
// the session cookies.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) { c.client.Jar = jar }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client for baseURL. An empty baseURL is accepted;
// every call then fails with a configuration error without touching the
// network.
func NewClient(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		session: session,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Request performs a call and returns the normalized response. Any error is
// an *Error.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions) (*Response, error) {
	resp, apiErr := c.request(ctx, endpoint, opts)
	if apiErr != nil {
		return nil, apiErr
	}
	return resp, nil
}

func (c *Client) request(ctx context.Context, endpoint string, opts RequestOptions) (*Response, *Error) {
	status, header, body, apiErr := c.send(ctx, endpoint, opts)
	if apiErr != nil {
		return nil, apiErr
	}

	if status < 200 || status >= 300 {
		return nil, c.failure(ctx, status, header, body)
	}
	if isJSON(header) {
		return jsonSuccess(status, header, body)
	}
	return textSuccess(status, header, body)
}

// Download fetches a binary payload. It refuses to send the request when no
// token is available.
func (c *Client) Download(ctx context.Context, endpoint string) (*File, error) {
	if c.baseURL == "" {
		return nil, configError()
	}
	token := c.activeToken()
	if token == "" {
		return nil, unauthenticatedError()
	}

	status, header, body, apiErr := c.send(ctx, endpoint, RequestOptions{
		Header: http.Header{"Accept": {"*/*"}},
		Token:  token,
	})
	if apiErr != nil {
		return nil, apiErr
	}
	if status < 200 || status >= 300 {
		return nil, c.failure(ctx, status, header, body)
	}

	f := &File{Data: body, ContentType: header.Get("Content-Type")}
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil {
		f.Filename = params["filename"]
	}
	return f, nil
}

// Get calls endpoint with query appended.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*Response, error) {
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + query.Encode()
	}
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodGet})
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPost, endpoint, body)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPut, endpoint, body)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, endpoint string, body any) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPatch, endpoint, body)
}

// Delete calls endpoint with the DELETE method.
func (c *Client) Delete(ctx context.Context, endpoint string) (*Response, error) {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodDelete})
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	opts := RequestOptions{Method: method}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, transportError(err)
		}
		opts.Body = bytes.NewReader(data)
	}
	return c.Request(ctx, endpoint, opts)
}

func (c *Client) activeToken() string {
	if c.session == nil {
		return ""
	}
	return c.session.ActiveToken()
}

// send performs the HTTP exchange and reads the whole body.
func (c *Client) send(ctx context.Context, endpoint string, opts RequestOptions) (int, http.Header, []byte, *Error) {
	if c.baseURL == "" {
		return 0, nil, nil, configError()
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, opts.Body)
	if err != nil {
		return 0, nil, nil, transportError(err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	token := opts.Token
	if token == "" {
		token = c.activeToken()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", endpoint, "request_id", requestID, "error", err)
		return 0, nil, nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, transportError(err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", endpoint,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.StatusCode, resp.Header, body, nil
}

// failure builds the error for a non-2xx response. A 401 ends the session
// first, whatever the body looks like.
func (c *Client) failure(ctx context.Context, status int, header http.Header, body []byte) *Error {
	if status == http.StatusUnauthorized && c.session != nil {
		c.logger.Info("API rejected credentials, logging out")
		c.session.Logout(ctx)
	}
	if isJSON(header) {
		return jsonError(status, body)
	}
	return textError(status, string(body))
}
