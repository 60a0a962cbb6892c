// Package api is the HTTP client for the commerce REST API.
//
// Every accessor is a single request/response call: a fixed path template,
// the parameters needed to build the URL, and a pass-through of the parsed
// body. There are no retries, no client-side timeout and no caching; callers
// cancel through the context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/adapter"
	"storefront/internal/model"
	"storefront/internal/transport"
)

// DefaultBaseURL is the public commerce API.
const DefaultBaseURL = "https://ecommerce.routemisr.com/api/v1"

// TokenHeader carries the raw session token. The API does not use a Bearer prefix.
const TokenHeader = "token"

// userAgent identifies this client to the API and any CDN in front of it.
const userAgent = "Storefront/1.0"

// failureMarker is the statusMsg value the API uses for failures, sometimes
// alongside a 2xx status.
const failureMarker = "fail"

// Observer receives one sample per API call. Implemented by metrics.Collector.
type Observer interface {
	ObserveCall(resource, method, outcome string, elapsed time.Duration)
}

// Config holds client configuration.
type Config struct {
	BaseURL string

	// ChromeTLS switches the transport to a Chrome TLS fingerprint.
	ChromeTLS bool

	// HTTPClient overrides the client built from the options above (tests).
	HTTPClient *http.Client

	// Observer is optional.
	Observer Observer
}

// Client talks to the commerce API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	observer   Observer
}

// New creates a Client. BaseURL defaults to DefaultBaseURL.
func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No Timeout: a single attempt that lasts as long as the caller's context.
		httpClient = &http.Client{
			Transport: transport.New(transport.Options{ChromeFingerprint: cfg.ChromeTLS}),
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(base, "/"),
		observer:   cfg.Observer,
	}, nil
}

// request describes one API call.
type request struct {
	resource string // metrics label, e.g. "cart"
	method   string
	path     string
	query    url.Values
	body     interface{}
	token    string
}

// envelope holds the fields the API uses to report failures. Message and
// Errors vary in shape between endpoints and are read leniently.
type envelope struct {
	StatusMsg json.RawMessage `json:"statusMsg"`
	Message   json.RawMessage `json:"message"`
	Errors    json.RawMessage `json:"errors"`
}

// failed reports whether the body carries the failure marker.
func (e *envelope) failed() bool {
	return rawString(e.StatusMsg) == failureMarker
}

// failureMessage picks the most specific message the API supplied.
func (e *envelope) failureMessage() string {
	if msg := errorsMessage(e.Errors); msg != "" {
		return msg
	}
	msg := rawString(e.Message)
	if msg == failureMarker {
		return ""
	}
	return msg
}

// rawString returns raw as a string when it is a JSON string, else "".
func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// errorsMessage reads "msg" from an errors object, or from the first entry
// of an errors array that has one.
func errorsMessage(raw json.RawMessage) string {
	type detail struct {
		Msg json.RawMessage `json:"msg"`
	}
	var one detail
	if json.Unmarshal(raw, &one) == nil {
		return rawString(one.Msg)
	}
	var many []detail
	if json.Unmarshal(raw, &many) == nil {
		for _, d := range many {
			if msg := rawString(d.Msg); msg != "" {
				return msg
			}
		}
	}
	return ""
}

// do executes r and decodes the body into out.
//
// Response policy:
//   - empty body: success with no data on 2xx, EMPTY_ERROR_BODY otherwise
//   - non-JSON body: MALFORMED_BODY
//   - non-2xx, or 2xx with statusMsg "fail": APPLICATION_ERROR with the
//     server's message or a generic fallback
func (c *Client) do(ctx context.Context, r request, out interface{}) (err error) {
	start := time.Now()
	defer func() { c.observe(r, err, time.Since(start)) }()

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewTransportError(fmt.Errorf("reading response: %w", err))
	}

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	body = bytes.TrimSpace(body)

	if len(body) == 0 {
		if !success {
			return model.NewEmptyErrorBody(resp.StatusCode)
		}
		return nil
	}

	if !json.Valid(body) {
		return model.NewMalformedBodyError(fmt.Errorf("%s %s returned %d bytes of non-JSON",
			r.method, r.path, len(body)))
	}

	// Arrays never carry the failure marker; only objects are inspected.
	// The body is valid JSON, so an object always decodes into raw fields.
	var env envelope
	if body[0] == '{' {
		json.Unmarshal(body, &env)
	}

	if !success || env.failed() {
		return model.NewApplicationError(resp.StatusCode, env.failureMessage())
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return model.NewMalformedBodyError(err)
	}
	return nil
}

// newRequest builds the HTTP request for r.
func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	var bodyReader io.Reader
	if r.body != nil {
		jsonBody, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set(TokenHeader, r.token)
	}

	return req, nil
}

func (c *Client) observe(r request, err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			outcome = strings.ToLower(apiErr.Code)
		} else {
			outcome = "error"
		}
	}
	c.observer.ObserveCall(r.resource, r.method, outcome, elapsed)
}

// segment escapes one path segment, rejecting empty ids before any call is made.
func segment(name, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", model.NewPreconditionError(name + " is required")
	}
	return url.PathEscape(id), nil
}

// requireToken rejects authenticated calls without a token.
func requireToken(token string) error {
	if token == "" {
		return model.NewPreconditionError("sign in required")
	}
	return nil
}

// Verify Client implements adapter.Commerce at compile time.
var _ adapter.Commerce = (*Client)(nil)
