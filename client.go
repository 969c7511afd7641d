package offerskit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Client is the Offers API client. It composes the auth manager, a swappable
// transport, middleware and plugin chains, and a TTL cache for offers into
// the two domain operations plus a cached variant. Safe for concurrent use;
// the shared token and the offers cache are the only cross-call state.
type Client struct {
	settings   Settings
	tokens     TokenProvider
	transport  Transport
	plugins    *PluginManager
	middleware []Middleware
	cache      Cache
	cacheTTL   time.Duration
	retry      RetryPolicy
	logger     Logger
	metrics    *MetricsCollector

	// authTransport is closed together with the client when the client built
	// its own AuthManager.
	authTransport Transport

	sleep     func(time.Duration)
	closeOnce sync.Once
	closeErr  error
}

// New constructs a Client for the given settings. Without options the client
// uses the settings' named transport, a file token store at the configured
// path, an in-memory offers cache and the default retry policy.
func New(settings Settings, options ...Option) (*Client, error) {
	if settings.BaseURL == "" {
		return nil, fmt.Errorf("offerskit: base URL is required")
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.OffersCacheTTL <= 0 {
		settings.OffersCacheTTL = 60 * time.Second
	}

	c := &Client{
		settings: settings,
		plugins:  NewPluginManager(),
		cacheTTL: settings.OffersCacheTTL,
		retry:    DefaultRetryPolicy(),
		logger:   NewNoopLogger(),
		sleep:    time.Sleep,
	}

	cfg := &clientConfig{}
	for _, option := range options {
		option(c, cfg)
	}

	if c.cache == nil {
		c.cache = NewInMemoryCache()
	}

	if c.transport == nil {
		name := c.settings.Transport
		if name == "" {
			name = "pooled"
		}
		transport, err := NewNamedTransport(name, settings.Timeout)
		if err != nil {
			return nil, err
		}
		c.transport = transport
	}

	if c.tokens == nil {
		store := cfg.tokenStore
		if store == nil && settings.TokenCachePath != "" {
			store = NewFileTokenStore(settings.TokenCachePath)
		}
		c.authTransport = NewHTTPTransport(settings.Timeout)
		c.tokens = NewAuthManager(settings.RefreshToken, settings.BaseURL,
			WithAuthTransport(c.authTransport),
			WithAuthStore(store),
			WithAuthRetryPolicy(c.retry),
			WithAuthLogger(c.logger),
			WithAuthMetrics(c.metrics),
		)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) validate() error {
	if c.retry.MaxAttempts < 1 {
		return fmt.Errorf("offerskit: retry MaxAttempts must be at least 1")
	}
	if c.retry.BaseDelay < 0 || c.retry.MinDelay < 0 || c.retry.MaxDelay < 0 {
		return fmt.Errorf("offerskit: retry delays must be non-negative")
	}
	if c.retry.MaxDelay > 0 && c.retry.MaxDelay < c.retry.MinDelay {
		return fmt.Errorf("offerskit: retry MaxDelay must be at least MinDelay")
	}
	for i, mw := range c.middleware {
		if mw == nil {
			return fmt.Errorf("offerskit: middleware[%d] is nil", i)
		}
	}
	return nil
}

// RegisterProduct registers a product and returns the server-assigned id.
func (c *Client) RegisterProduct(ctx context.Context, product RegisterProductRequest) (*RegisterProductResponse, error) {
	req := &Request{
		Method:   http.MethodPost,
		URL:      c.settings.BaseURL + "/api/v1/products/register",
		Headers:  map[string]string{},
		JSONBody: product,
	}

	resp, err := c.execute(ctx, "register_product", req, func(resp *Response) (bool, error) {
		switch resp.StatusCode {
		case http.StatusCreated:
			return true, nil
		case http.StatusConflict:
			return false, &APIError{
				Kind:       ErrorKindConflict,
				Message:    "product ID already registered",
				StatusCode: resp.StatusCode,
				Body:       resp.Text(),
			}
		}
		return false, nil
	}, "failed to register product")
	if err != nil {
		return nil, err
	}

	var result RegisterProductResponse
	if err := resp.JSON(&result); err != nil {
		return nil, &APIError{
			Kind:       ErrorKindUnexpectedStatus,
			Message:    "failed to decode registration response",
			StatusCode: resp.StatusCode,
			Body:       resp.Text(),
			Cause:      err,
		}
	}
	return &result, nil
}

// GetOffers returns the available offers for a product, in server order.
func (c *Client) GetOffers(ctx context.Context, productID string) ([]Offer, error) {
	req := &Request{
		Method:  http.MethodGet,
		URL:     c.settings.BaseURL + "/api/v1/products/" + productID + "/offers",
		Headers: map[string]string{},
	}

	resp, err := c.execute(ctx, "get_offers", req, func(resp *Response) (bool, error) {
		switch resp.StatusCode {
		case http.StatusOK:
			return true, nil
		case http.StatusNotFound:
			return false, &APIError{
				Kind:       ErrorKindNotFound,
				Message:    "product ID not registered",
				StatusCode: resp.StatusCode,
				Body:       resp.Text(),
			}
		}
		return false, nil
	}, "failed to get offers")
	if err != nil {
		return nil, err
	}

	var offers []Offer
	if err := resp.JSON(&offers); err != nil {
		return nil, &APIError{
			Kind:       ErrorKindUnexpectedStatus,
			Message:    "failed to decode offers response",
			StatusCode: resp.StatusCode,
			Body:       resp.Text(),
			Cause:      err,
		}
	}
	return offers, nil
}

// GetOffersCached returns offers for a product through the TTL cache. Cache
// failures on either side are logged and never surface; a hit skips the
// network entirely.
func (c *Client) GetOffersCached(ctx context.Context, productID string) ([]Offer, error) {
	key := offersCacheKey(productID)

	if data, found, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("offers cache read failed", "key", key, "error", err)
	} else if found {
		var offers []Offer
		if err := json.Unmarshal(data, &offers); err != nil {
			c.logger.Warn("offers cache entry is corrupt", "key", key, "error", err)
		} else {
			c.logger.Debug("offers cache hit", "key", key)
			c.metrics.RecordCacheHit("get_offers")
			return offers, nil
		}
	}

	c.logger.Debug("offers cache miss", "key", key)
	c.metrics.RecordCacheMiss("get_offers")

	offers, err := c.GetOffers(ctx, productID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(offers); err != nil {
		c.logger.Warn("failed to serialize offers for cache", "key", key, "error", err)
	} else if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		c.logger.Warn("offers cache write failed", "key", key, "error", err)
	}

	return offers, nil
}

// execute runs one logical call through the full pipeline: token, middleware
// OnRequest, plugin request fold, then the bounded retry loop around
// transport, plugin response fold, middleware OnResponse and status dispatch.
// handle resolves operation-specific statuses; execute owns 401, 422,
// transient failures and the catch-all.
func (c *Client) execute(ctx context.Context, op string, req *Request, handle func(*Response) (bool, error), failMsg string) (*Response, error) {
	start := time.Now()
	c.metrics.RecordRequestStart(op)
	defer c.metrics.RecordRequestEnd(op)

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.metrics.RecordError("Auth", op)
		return nil, err
	}
	req.Headers["Bearer"] = token

	for _, mw := range c.middleware {
		if err := mw.OnRequest(ctx, req); err != nil {
			return nil, err
		}
	}

	current, err := c.plugins.ProcessRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	reauthed := false
	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(c.retry.Delay(attempt - 1))
			c.metrics.RecordRetry(op, attempt)
		}

		resp, err := c.transport.Do(ctx, current)
		if err != nil {
			c.logger.Warn("transport call failed", "operation", op, "attempt", attempt, "error", err)
			c.metrics.RecordError("Network", op)
			lastErr = err
			continue
		}

		resp, err = c.plugins.ProcessResponse(ctx, resp)
		if err != nil {
			return nil, err
		}
		for _, mw := range c.middleware {
			if err := mw.OnResponse(ctx, resp); err != nil {
				return nil, err
			}
		}

		if done, terminal := handle(resp); done {
			c.metrics.RecordRequest(op, resp.StatusCode, time.Since(start))
			return resp, nil
		} else if terminal != nil {
			c.metrics.RecordRequest(op, resp.StatusCode, time.Since(start))
			return nil, terminal
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			if reauthed {
				// The fresh token was rejected too; a third attempt cannot
				// succeed.
				c.metrics.RecordRequest(op, resp.StatusCode, time.Since(start))
				return nil, &APIError{
					Kind:       ErrorKindUnauthorized,
					Message:    "unauthorized after token refresh",
					StatusCode: resp.StatusCode,
					Body:       resp.Text(),
				}
			}
			c.logger.Debug("access token rejected, refreshing", "operation", op)
			fresh, err := c.tokens.Refresh(ctx)
			if err != nil {
				c.metrics.RecordError("Auth", op)
				return nil, err
			}
			current.Headers["Bearer"] = fresh
			reauthed = true
			lastErr = &APIError{
				Kind:       ErrorKindUnauthorized,
				Message:    "unauthorized",
				StatusCode: resp.StatusCode,
			}

		case resp.StatusCode == http.StatusUnprocessableEntity:
			detail := validationDetail(resp)
			c.metrics.RecordRequest(op, resp.StatusCode, time.Since(start))
			return nil, &APIError{
				Kind:       ErrorKindValidation,
				Message:    fmt.Sprintf("Validation error: %v", detail),
				StatusCode: resp.StatusCode,
				Details:    detail,
				Body:       resp.Text(),
			}

		case retryableStatus(resp.StatusCode):
			c.logger.Warn("transient server failure", "operation", op, "status", resp.StatusCode, "attempt", attempt)
			c.metrics.RecordError("Server", op)
			lastErr = &APIError{
				Kind:       ErrorKindUnexpectedStatus,
				Message:    fmt.Sprintf("%s: %d %s", failMsg, resp.StatusCode, resp.Text()),
				StatusCode: resp.StatusCode,
				Body:       resp.Text(),
			}

		default:
			c.metrics.RecordRequest(op, resp.StatusCode, time.Since(start))
			return nil, &APIError{
				Kind:       ErrorKindUnexpectedStatus,
				Message:    fmt.Sprintf("%s: %d %s", failMsg, resp.StatusCode, resp.Text()),
				StatusCode: resp.StatusCode,
				Body:       resp.Text(),
			}
		}
	}

	c.metrics.RecordError("RetriesExhausted", op)
	return nil, &APIError{
		Kind:    ErrorKindRetriesExhausted,
		Message: failMsg + " after retries",
		Cause:   lastErr,
	}
}

// validationDetail extracts the server's structured detail payload from a
// 422 body, falling back to the raw text.
func validationDetail(resp *Response) any {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := resp.JSON(&payload); err != nil || payload.Detail == nil {
		return resp.Text()
	}
	return payload.Detail
}

// Close releases the transports' underlying connections. Idempotent and safe
// to call on a client that never issued a request. Callers own the client's
// lifetime; nothing closes it implicitly.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.transport.Close()
		if c.authTransport != nil {
			if err := c.authTransport.Close(); err != nil && c.closeErr == nil {
				c.closeErr = err
			}
		}
	})
	return c.closeErr
}

// AddMiddleware appends middleware after construction. Execution order is
// registration order; duplicates run twice.
func (c *Client) AddMiddleware(mw Middleware) {
	c.middleware = append(c.middleware, mw)
}

// Plugins exposes the plugin manager for registration and removal.
func (c *Client) Plugins() *PluginManager {
	return c.plugins
}

// Cache exposes the offers cache, e.g. for wiring a CacheClearMiddleware.
func (c *Client) Cache() Cache {
	return c.cache
}
