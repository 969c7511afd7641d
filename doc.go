// Package offerskit is a client SDK for the Offers microservice:
//
//   - Token lifecycle management (refresh token -> short-lived access token,
//     persisted across processes via a pluggable TokenStore)
//   - Product registration and offer retrieval with bounded retries and
//     exponential backoff + jitter
//   - Swappable transports ("pooled", "simple") behind a small interface,
//     selectable by name
//   - Middleware chain for cross-cutting concerns (logging, rate limiting,
//     cache invalidation) and a plugin chain for payload transformation
//   - In-memory TTL caching of offers with per-product invalidation
//   - Prometheus metrics and structured logging via zerolog
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - Extensibility via user supplied middleware, plugins, cache, transports
//
// Typical usage:
//
//	settings, err := offerskit.LoadSettings()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := offerskit.New(settings,
//	    offerskit.WithMetrics(),
//	    offerskit.WithRequestPlugins(offerskit.ProductValidationPlugin{}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	id, err := client.RegisterProduct(ctx, offerskit.RegisterProductRequest{
//	    ID:          uuid.NewString(),
//	    Name:        "Widget",
//	    Description: "A fine widget",
//	})
//	offers, err := client.GetOffersCached(ctx, id.ID)
//
// Authentication is transparent: the client obtains and refreshes access
// tokens on demand and retries once with a fresh token when the server
// rejects the current one.
package offerskit
