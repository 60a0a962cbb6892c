// Package transport builds the http.RoundTripper used to reach the commerce API.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// Options selects the round tripper built by New.
type Options struct {
	// ChromeFingerprint presents Chrome's TLS ClientHello instead of Go's.
	// Some CDNs in front of the commerce API throttle the Go fingerprint.
	ChromeFingerprint bool

	// DialTimeout bounds connection setup only; requests themselves are not
	// timed out.
	DialTimeout time.Duration
}

const defaultDialTimeout = 30 * time.Second

// New returns the transport described by opts.
func New(opts Options) http.RoundTripper {
	if opts.DialTimeout == 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if !opts.ChromeFingerprint {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.DialContext = (&net.Dialer{Timeout: opts.DialTimeout}).DialContext
		return t
	}
	return newChromeTransport(opts.DialTimeout)
}

// newChromeTransport negotiates h2 or http/1.1 over a uTLS connection that
// carries Chrome's fingerprint.
func newChromeTransport(dialTimeout time.Duration) http.RoundTripper {
	dialer := &net.Dialer{Timeout: dialTimeout}

	h2 := &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return dialChromeTLS(ctx, dialer, network, addr)
		},
	}
	h1 := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialChromeTLS(ctx, dialer, network, addr)
		},
		DialContext:       dialer.DialContext,
		ForceAttemptHTTP2: false,
	}

	return &chromeTransport{h2: h2, h1: h1}
}

type chromeTransport struct {
	h2 *http2.Transport
	h1 *http.Transport
}

// RoundTrip sends plain-http requests over HTTP/1.1 and tries HTTP/2 first
// for https, falling back when the server does not speak it.
func (t *chromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	// Bodies are consumed by the failed attempt; only replay when we can.
	if req.Body != nil && req.GetBody == nil {
		return nil, err
	}
	retry := req
	if req.GetBody != nil {
		body, gerr := req.GetBody()
		if gerr != nil {
			return nil, err
		}
		retry = req.Clone(req.Context())
		retry.Body = body
	}
	return t.h1.RoundTrip(retry)
}

func dialChromeTLS(ctx context.Context, dialer *net.Dialer, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloChrome_Auto)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
