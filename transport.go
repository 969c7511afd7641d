package offerskit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Transport executes a single HTTP call described by a Request and returns
// the unified response view. The SDK never constructs raw sockets; everything
// below this interface belongs to the backend.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	Close() error
}

// TransportFactory builds a named transport backend with a default timeout.
type TransportFactory func(timeout time.Duration) Transport

var (
	transportsMu sync.RWMutex
	transports   = map[string]TransportFactory{
		"pooled": func(timeout time.Duration) Transport { return NewHTTPTransport(timeout) },
		"simple": func(timeout time.Duration) Transport { return NewSimpleTransport(timeout) },
	}
)

// RegisterTransport makes a custom backend selectable by name. Registering an
// existing name replaces the previous factory.
func RegisterTransport(name string, factory TransportFactory) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[strings.ToLower(name)] = factory
}

// NewNamedTransport returns the transport registered under name.
// Built-in backends: "pooled" (keep-alive connection pool, default) and
// "simple" (one connection per request).
func NewNamedTransport(name string, timeout time.Duration) (Transport, error) {
	transportsMu.RLock()
	factory, ok := transports[strings.ToLower(name)]
	transportsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown transport %q (available: pooled, simple)", name)
	}
	return factory(timeout), nil
}

// HTTPTransport is the default backend: a pooled net/http client with
// keep-alive connections shared across calls.
type HTTPTransport struct {
	client  *http.Client
	timeout time.Duration

	closeOnce sync.Once
}

// NewHTTPTransport creates a pooled transport with the given default timeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		client:  &http.Client{},
		timeout: timeout,
	}
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	return roundTrip(ctx, t.client, req, t.timeout)
}

// Close releases idle connections. Idempotent and safe to call on an unused
// transport.
func (t *HTTPTransport) Close() error {
	t.closeOnce.Do(func() {
		t.client.CloseIdleConnections()
	})
	return nil
}

// SimpleTransport opens a fresh connection per request. Useful behind
// aggressive proxies or in short-lived processes where pooling buys nothing.
type SimpleTransport struct {
	client  *http.Client
	timeout time.Duration
}

// NewSimpleTransport creates a transport with keep-alives disabled.
func NewSimpleTransport(timeout time.Duration) *SimpleTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SimpleTransport{
		client: &http.Client{
			Transport: &http.Transport{DisableKeepAlives: true},
		},
		timeout: timeout,
	}
}

// Do implements Transport.
func (t *SimpleTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	return roundTrip(ctx, t.client, req, t.timeout)
}

// Close implements Transport. Nothing persistent to release.
func (t *SimpleTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// roundTrip translates a Request descriptor into a net/http call and buffers
// the response body into the unified view.
func roundTrip(ctx context.Context, client *http.Client, req *Request, defaultTimeout time.Duration) (*Response, error) {
	timeout := defaultTimeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	target := req.URL
	if len(req.Params) > 0 {
		q := url.Values{}
		for k, v := range req.Params {
			q.Set(k, v)
		}
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target = target + sep + q.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.JSONBody != nil:
		encoded, err := json.Marshal(req.JSONBody)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	case req.FormBody != nil:
		form := url.Values{}
		for k, v := range req.FormBody {
			form.Set(k, v)
		}
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	buf, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
		Body:       buf,
	}, nil
}
