package cloudsync

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

	"basecamp/internal/cloudsync/tracer"
	dErrors "basecamp/pkg/domain-errors"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client dispatches push payloads to the remote webhook. The transport is
// one-way: the response body is drained and discarded, never parsed. A nil
// error from Dispatch means the request left this process, not that the
// remote persisted anything.
type Client struct {
	client          HTTPDoer
	timeout         time.Duration
	includeIdentity bool
	tracer          tracer.Tracer
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient injects a custom HTTP client, mainly for tests.
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		if doer != nil {
			c.client = doer
		}
	}
}

// WithTimeout bounds a single dispatch when greater than zero.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithIdentityFile forwards the inline identity document payload instead of
// stripping it. The remote schema does not require it, so the default strips.
func WithIdentityFile(include bool) ClientOption {
	return func(c *Client) {
		c.includeIdentity = include
	}
}

// WithTracer sets the tracing backend for dispatch spans.
func WithTracer(t tracer.Tracer) ClientOption {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// NewClient constructs a webhook client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout: 10 * time.Second,
		tracer:  tracer.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// ValidateEndpoint checks that endpoint matches the Apps Script web-app
// deployment convention before any push is attempted. Configuration problems
// surface here as a single operator-facing error instead of a silent
// per-record failure.
func ValidateEndpoint(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return dErrors.New(dErrors.CodeConfiguration, "webhook endpoint is not configured")
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return dErrors.New(dErrors.CodeConfiguration, "webhook endpoint must be a valid https URL")
	}
	if !strings.HasSuffix(u.Path, "/exec") {
		return dErrors.New(dErrors.CodeConfiguration, "webhook endpoint must point at an executable web app (…/exec)")
	}
	return nil
}

// Dispatch sends one payload to endpoint. The returned error distinguishes
// only "dispatched" from "not dispatched"; remote acknowledgment is never
// modeled.
func (c *Client) Dispatch(ctx context.Context, endpoint string, p Payload) (err error) {
	ctx, span := c.tracer.Start(ctx, "cloudsync.dispatch",
		tracer.String("action", p.Action),
	)
	defer func() { span.End(err) }()

	if p.Registration != nil {
		span.SetAttributes(tracer.String("booking_id", p.Registration.BookingID()))
		if !c.includeIdentity && p.Registration.IdentityFile != "" {
			stripped := *p.Registration
			stripped.IdentityFile = ""
			p.Registration = &stripped
		}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode push payload")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(endpoint), bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build push request")
	}
	// Apps Script web apps accept JSON as text/plain without a CORS preflight.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeDispatchFailed, fmt.Sprintf("dispatch %s", p.Action))
	}
	// Drain and discard; no response body is trusted.
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}
