package offerskit

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Middleware observes the request/response lifecycle around every client
// call. Hooks run in registration order in both phases; an error from either
// hook aborts the call and propagates to the caller.
//
// Middleware is observational (logging, cache invalidation, throttling);
// payload transformation belongs to plugins.
type Middleware interface {
	OnRequest(ctx context.Context, req *Request) error
	OnResponse(ctx context.Context, resp *Response) error
}

// LoggingMiddleware logs every request and response with timing.
type LoggingMiddleware struct {
	logger Logger

	lastStart atomic.Int64
}

// NewLoggingMiddleware creates a middleware writing to the given logger.
func NewLoggingMiddleware(logger Logger) *LoggingMiddleware {
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &LoggingMiddleware{logger: logger}
}

// OnRequest implements Middleware.
func (m *LoggingMiddleware) OnRequest(_ context.Context, req *Request) error {
	m.lastStart.Store(time.Now().UnixNano())
	m.logger.Info("request",
		"method", req.Method,
		"url", req.URL,
		"params", req.Params,
	)
	return nil
}

// OnResponse implements Middleware.
func (m *LoggingMiddleware) OnResponse(_ context.Context, resp *Response) error {
	kv := []any{"status", resp.StatusCode}
	if start := m.lastStart.Load(); start > 0 {
		kv = append(kv, "elapsed", time.Since(time.Unix(0, start)).String())
	}
	m.logger.Info("response", kv...)
	return nil
}

// CacheClearMiddleware invalidates cached offers when a product is
// successfully registered, so the next fetch sees fresh data. It acts only on
// 201 responses carrying a product id.
type CacheClearMiddleware struct {
	cache  Cache
	logger Logger
}

// NewCacheClearMiddleware creates a middleware that invalidates entries in
// the given cache.
func NewCacheClearMiddleware(cache Cache, logger Logger) *CacheClearMiddleware {
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &CacheClearMiddleware{cache: cache, logger: logger}
}

// OnRequest implements Middleware. No action on request.
func (m *CacheClearMiddleware) OnRequest(context.Context, *Request) error {
	return nil
}

// OnResponse implements Middleware.
func (m *CacheClearMiddleware) OnResponse(ctx context.Context, resp *Response) error {
	if resp.StatusCode != http.StatusCreated || m.cache == nil {
		return nil
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := resp.JSON(&payload); err != nil {
		m.logger.Warn("failed to parse registration response for cache invalidation", "error", err)
		return nil
	}
	if payload.ID == "" {
		m.logger.Warn("no product id in registration response")
		return nil
	}

	key := offersCacheKey(payload.ID)
	if err := m.cache.Delete(ctx, key); err != nil {
		m.logger.Warn("failed to invalidate offers cache", "key", key, "error", err)
		return nil
	}
	m.logger.Info("cleared offers cache", "key", key)
	return nil
}

// RateLimitMiddleware throttles outbound calls with a token bucket. OnRequest
// blocks until a token is available or the context is done.
type RateLimitMiddleware struct {
	limiter *rate.Limiter
}

// NewRateLimitMiddleware allows rps requests per second with the given burst.
func NewRateLimitMiddleware(rps float64, burst int) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// OnRequest implements Middleware.
func (m *RateLimitMiddleware) OnRequest(ctx context.Context, _ *Request) error {
	return m.limiter.Wait(ctx)
}

// OnResponse implements Middleware. No action on response.
func (m *RateLimitMiddleware) OnResponse(context.Context, *Response) error {
	return nil
}
