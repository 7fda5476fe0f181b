// Package airship provides the authenticated HTTP client for the Airship
// REST API.
package airship

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

	"github.com/kart-io/uapush/pkg/config"
	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/logger"
	"github.com/kart-io/uapush/pkg/observability"
)

const (
	// DefaultVersion is the API version sent in the Accept header.
	DefaultVersion = 3

	// ContentTypeJSON is the request content type for JSON bodies.
	ContentTypeJSON = "application/json"

	userAgent = "uapush-go"
)

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client performs authenticated requests against the Airship API.
// It is safe for concurrent use.
type Client struct {
	key        string
	secret     string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	telemetry  *observability.Provider
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets the API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithLogger sets the logger instance
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTelemetry traces and counts every request through p
func WithTelemetry(p *observability.Provider) Option {
	return func(c *Client) { c.telemetry = p }
}

// New creates a client for the given app key and master secret.
func New(key, secret string, opts ...Option) *Client {
	c := &Client{
		key:        key,
		secret:     secret,
		baseURL:    config.DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.Discard,
		telemetry:  observability.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from cfg. Credentials must be present.
// Options are applied after the configuration.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}
	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.LoggerInstance != nil {
		base = append(base, WithLogger(cfg.LoggerInstance))
	}
	return New(cfg.AppKey, cfg.MasterSecret, append(base, opts...)...), nil
}

// Logger returns the client's logger
func (c *Client) Logger() logger.Logger {
	return c.logger
}

// URL joins path onto the API root. path should start with a slash.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Request sends body to rawURL with basic auth and the versioned Accept
// header. A version of zero selects DefaultVersion. Non-2xx responses are
// returned as *errors.PushError carrying the status and the API's error
// details.
func (c *Client) Request(ctx context.Context, method, rawURL string, body []byte, contentType string, version int) (*Response, error) {
	if version == 0 {
		version = DefaultVersion
	}
	endpoint := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		endpoint = u.Path
	}

	ctx, span := c.telemetry.TraceRequest(ctx, method, endpoint)
	defer span.End()
	start := time.Now()

	resp, err := c.do(ctx, method, rawURL, body, contentType, version)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	} else if pushErr, ok := err.(*uaerrors.PushError); ok {
		status = pushErr.StatusCode
	}
	c.telemetry.RecordRequest(ctx, method, endpoint, status, time.Since(start), err)
	if err != nil {
		c.telemetry.SetSpanError(span, err)
		c.logger.Debug("airship request failed", "method", method, "url", rawURL, "error", err)
		return nil, err
	}
	c.telemetry.SetSpanSuccess(span)
	c.logger.Debug("airship response", "method", method, "url", rawURL, "status", status)
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, contentType string, version int) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrInternal, "failed to create request")
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", fmt.Sprintf("application/vnd.urbanairship+json; version=%d", version))
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("airship request", "method", method, "url", rawURL, "bytes", len(body))

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrConnectionFailed, "request failed").WithComponent("airship")
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrConnectionFailed, "failed to read response").
			WithComponent("airship").WithStatus(httpResp.StatusCode)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, decodeAPIError(httpResp.StatusCode, data)
	}
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

// apiError is the error body returned by the API.
type apiError struct {
	OK        bool           `json:"ok"`
	Error     string         `json:"error"`
	ErrorCode int            `json:"error_code"`
	Details   map[string]any `json:"details"`
}

func decodeAPIError(status int, body []byte) *uaerrors.PushError {
	code := uaerrors.ErrRequestFailed
	if status == http.StatusUnauthorized {
		code = uaerrors.ErrUnauthorized
	}

	var payload apiError
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		message = text
	}

	return uaerrors.New(code, message).
		WithComponent("airship").
		WithStatus(status).
		WithAPIError(payload.ErrorCode, payload.Details)
}

// Do marshals in as JSON (when non-nil), sends it to path and decodes the
// response body into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return uaerrors.Wrap(err, uaerrors.ErrSerializationFailed, "failed to encode request")
		}
		body = data
		contentType = ContentTypeJSON
	}

	resp, err := c.Request(ctx, method, c.URL(path), body, contentType, DefaultVersion)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return uaerrors.Wrap(err, uaerrors.ErrDeserializationFailed, "failed to decode response").
			WithStatus(resp.StatusCode)
	}
	return nil
}
