package offerskit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ambiyansyah-risyal/offerskit/internal/flight"
)

// TokenProvider produces currently-valid access tokens. AuthManager is the
// canonical implementation; tests substitute stubs.
type TokenProvider interface {
	// AccessToken returns a usable token, refreshing only when the cached one
	// is missing or expired.
	AccessToken(ctx context.Context) (string, error)
	// Refresh unconditionally exchanges the refresh credential for a new
	// access token.
	Refresh(ctx context.Context) (string, error)
}

// AuthManager owns the access-token lifecycle: load from the store, validity
// checks under the safety buffer, and refresh with bounded retry against the
// auth endpoint. Safe for concurrent use; concurrent expirations coalesce
// into a single in-flight refresh.
type AuthManager struct {
	refreshToken string
	baseURL      string

	transport Transport
	store     TokenStore
	retry     RetryPolicy
	logger    Logger
	metrics   *MetricsCollector

	mu    sync.Mutex
	token *AccessToken

	group *flight.Group
	now   func() time.Time
	sleep func(time.Duration)
}

// AuthOption configures an AuthManager.
type AuthOption func(*AuthManager)

// WithAuthTransport sets the transport used for auth endpoint calls. The
// manager owns its transport independently of the client's.
func WithAuthTransport(t Transport) AuthOption {
	return func(a *AuthManager) { a.transport = t }
}

// WithAuthStore sets the token persistence backend.
func WithAuthStore(s TokenStore) AuthOption {
	return func(a *AuthManager) { a.store = s }
}

// WithAuthRetryPolicy overrides the refresh retry policy.
func WithAuthRetryPolicy(p RetryPolicy) AuthOption {
	return func(a *AuthManager) { a.retry = p }
}

// WithAuthLogger sets the logger.
func WithAuthLogger(l Logger) AuthOption {
	return func(a *AuthManager) { a.logger = l }
}

// WithAuthMetrics attaches a metrics collector for refresh accounting.
func WithAuthMetrics(m *MetricsCollector) AuthOption {
	return func(a *AuthManager) { a.metrics = m }
}

// NewAuthManager creates a manager for the given refresh credential and API
// base URL. Without options it uses a pooled transport, no token store, and
// the default retry policy.
func NewAuthManager(refreshToken, baseURL string, opts ...AuthOption) *AuthManager {
	a := &AuthManager{
		refreshToken: refreshToken,
		baseURL:      strings.TrimRight(baseURL, "/"),
		retry:        DefaultRetryPolicy(),
		logger:       NewNoopLogger(),
		group:        flight.New(),
		now:          time.Now,
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.transport == nil {
		a.transport = NewHTTPTransport(30 * time.Second)
	}
	return a
}

// AccessToken returns a valid token, consulting memory, then the store, and
// refreshing only when neither holds a usable one.
func (a *AuthManager) AccessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	if a.token == nil && a.store != nil {
		stored, err := a.store.Load(ctx)
		if err != nil {
			a.logger.Warn("failed to load token from store", "error", err)
		} else if stored != nil {
			a.logger.Debug("loaded cached token from store", "expiresAt", stored.ExpiresAt)
			a.token = stored
		}
	}

	if a.token.Valid(a.now()) {
		token := a.token.Token
		a.mu.Unlock()
		return token, nil
	}
	a.mu.Unlock()

	a.logger.Debug("no valid token, refreshing")
	return a.Refresh(ctx)
}

// Refresh unconditionally fetches a new access token. Concurrent callers
// share one in-flight refresh; each receives the same result.
func (a *AuthManager) Refresh(ctx context.Context) (string, error) {
	token, err := a.group.Do("refresh", func() (interface{}, error) {
		return a.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (a *AuthManager) refresh(ctx context.Context) (string, error) {
	if strings.TrimSpace(a.refreshToken) == "" {
		return "", &AuthError{Message: "refresh token is missing or empty"}
	}

	var lastErr error
	for attempt := 0; attempt < a.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			a.sleep(a.retry.Delay(attempt - 1))
			a.metrics.RecordRetry("auth", attempt)
		}

		resp, err := a.transport.Do(ctx, &Request{
			Method: http.MethodPost,
			URL:    a.baseURL + "/api/v1/auth",
			// The service expects the literal "Bearer" header name, not
			// "Authorization: Bearer".
			Headers: map[string]string{"Bearer": a.refreshToken},
		})
		if err != nil {
			a.logger.Warn("auth request failed", "attempt", attempt, "error", err)
			lastErr = err
			continue
		}

		switch resp.StatusCode {
		case http.StatusCreated:
			var payload struct {
				AccessToken string `json:"access_token"`
			}
			if err := resp.JSON(&payload); err != nil {
				lastErr = fmt.Errorf("decode auth response: %w", err)
				continue
			}
			return a.adopt(ctx, payload.AccessToken), nil

		case http.StatusUnauthorized:
			// Bad refresh credential: retrying cannot help.
			a.logger.Error("refresh token rejected by auth endpoint")
			return "", &AuthError{Message: "bad refresh token"}

		default:
			a.logger.Warn("auth endpoint returned unexpected status",
				"status", resp.StatusCode, "body", resp.Text())
			lastErr = &AuthError{
				Message: fmt.Sprintf("auth error: %d: %s", resp.StatusCode, resp.Text()),
			}
		}
	}

	return "", &AuthError{Message: "failed to get access token after retries", Cause: lastErr}
}

// adopt installs a freshly issued token in memory and persists it
// best-effort.
func (a *AuthManager) adopt(ctx context.Context, value string) string {
	token := &AccessToken{
		Token:     value,
		ExpiresAt: float64(a.now().Add(tokenValidity).UnixNano()) / float64(time.Second),
	}

	a.mu.Lock()
	a.token = token
	a.mu.Unlock()

	a.metrics.RecordTokenRefresh()
	a.logger.Debug("new access token acquired", "validFor", tokenValidity)

	if a.store != nil {
		if err := a.store.Save(ctx, token); err != nil {
			// The in-memory token stays usable even when persistence fails.
			a.logger.Warn("failed to save token to store", "error", err)
		}
	}
	return value
}

// TokenInfo reports the current token and whether it is valid right now,
// without triggering a refresh. Consults the store when memory is empty.
func (a *AuthManager) TokenInfo(ctx context.Context) (*AccessToken, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	token := a.token
	if token == nil && a.store != nil {
		stored, err := a.store.Load(ctx)
		if err == nil {
			token = stored
		}
	}
	if token == nil {
		return nil, false
	}
	copied := *token
	return &copied, copied.Valid(a.now())
}

// ClearToken drops the in-memory token and clears the store.
func (a *AuthManager) ClearToken(ctx context.Context) error {
	a.mu.Lock()
	a.token = nil
	a.mu.Unlock()

	if a.store != nil {
		return a.store.Clear(ctx)
	}
	return nil
}
