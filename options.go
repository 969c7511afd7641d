package offerskit

// clientConfig carries construction-only knobs that are consumed by New and
// not stored on the client.
type clientConfig struct {
	tokenStore TokenStore
}

// Option configures a Client during construction.
type Option func(*Client, *clientConfig)

// WithTransport sets a custom transport. The caller keeps ownership quirks in
// mind: Close on the client closes this transport too.
func WithTransport(transport Transport) Option {
	return func(c *Client, _ *clientConfig) {
		c.transport = transport
	}
}

// WithTransportName selects a registered transport backend by name,
// overriding the settings value.
func WithTransportName(name string) Option {
	return func(c *Client, _ *clientConfig) {
		c.settings.Transport = name
	}
}

// WithTokenProvider replaces the default AuthManager. The client will not
// construct its own auth transport or token store.
func WithTokenProvider(tokens TokenProvider) Option {
	return func(c *Client, _ *clientConfig) {
		c.tokens = tokens
	}
}

// WithTokenStore sets the persistent store used by the default AuthManager.
// Ignored when WithTokenProvider is also given.
func WithTokenStore(store TokenStore) Option {
	return func(_ *Client, cfg *clientConfig) {
		cfg.tokenStore = store
	}
}

// WithMiddleware appends middleware in the given order.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Client, _ *clientConfig) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithRequestPlugins registers request plugins in the given order.
func WithRequestPlugins(plugins ...RequestPlugin) Option {
	return func(c *Client, _ *clientConfig) {
		for _, p := range plugins {
			c.plugins.AddRequestPlugin(p)
		}
	}
}

// WithResponsePlugins registers response plugins in the given order.
func WithResponsePlugins(plugins ...ResponsePlugin) Option {
	return func(c *Client, _ *clientConfig) {
		for _, p := range plugins {
			c.plugins.AddResponsePlugin(p)
		}
	}
}

// WithPluginManager replaces the plugin manager wholesale, discarding any
// plugins registered by earlier options.
func WithPluginManager(pm *PluginManager) Option {
	return func(c *Client, _ *clientConfig) {
		if pm != nil {
			c.plugins = pm
		}
	}
}

// WithCache sets the offers cache implementation.
func WithCache(cache Cache) Option {
	return func(c *Client, _ *clientConfig) {
		c.cache = cache
	}
}

// WithRetryPolicy sets the retry policy for client calls and, when the client
// builds its own AuthManager, for token refreshes as well.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client, _ *clientConfig) {
		c.retry = policy
	}
}

// WithMaxRetries overrides only the attempt bound of the current policy.
func WithMaxRetries(attempts int) Option {
	return func(c *Client, _ *clientConfig) {
		c.retry.MaxAttempts = attempts
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) Option {
	return func(c *Client, _ *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client, _ *clientConfig) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a pre-built collector, e.g. one bound to a custom
// registry.
func WithMetricsCollector(mc *MetricsCollector) Option {
	return func(c *Client, _ *clientConfig) {
		c.metrics = mc
	}
}
