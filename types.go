package offerskit

import (
	"encoding/json"
	"net/http"
	"time"
)

// tokenValidity is how long the auth endpoint's access tokens are treated as
// usable. The endpoint does not report its own TTL.
const tokenValidity = 5 * time.Minute

// tokenSafetyBuffer is subtracted from the expiry when checking validity so a
// token never expires mid-flight.
const tokenSafetyBuffer = 10 * time.Second

// AccessToken is a short-lived credential together with its absolute expiry
// as a UNIX timestamp. It is replaced wholesale on every refresh, never
// partially mutated.
type AccessToken struct {
	Token     string  `json:"access_token"`
	ExpiresAt float64 `json:"expires_at"`
}

// Valid reports whether the token is usable at the given instant, applying
// the safety buffer.
func (t *AccessToken) Valid(now time.Time) bool {
	if t == nil || t.Token == "" {
		return false
	}
	expiry := time.Unix(0, int64(t.ExpiresAt*float64(time.Second)))
	return now.Before(expiry.Add(-tokenSafetyBuffer))
}

// RegisterProductRequest describes a product to register.
type RegisterProductRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RegisterProductResponse is the server's acknowledgement of a registration.
type RegisterProductResponse struct {
	ID string `json:"id"`
}

// Offer is an immutable snapshot of one seller's offer for a product.
type Offer struct {
	ID           string  `json:"id"`
	Price        float64 `json:"price"`
	ItemsInStock int     `json:"items_in_stock"`
	Seller       string  `json:"seller,omitempty"`
	Currency     string  `json:"currency,omitempty"`
}

// Request is the tuple threaded through middleware, plugins and the
// transport. Treat it as immutable: plugins return a fresh (possibly cloned)
// descriptor rather than mutating their input in place.
type Request struct {
	Method   string
	URL      string
	Headers  map[string]string
	Params   map[string]string
	JSONBody any
	FormBody map[string]string
	// Timeout overrides the transport's default for this call when positive.
	Timeout time.Duration
}

// Clone returns a deep copy of the descriptor. Header and param maps are
// copied; bodies are shared (they are treated as read-only values).
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	out := &Request{
		Method:   r.Method,
		URL:      r.URL,
		JSONBody: r.JSONBody,
		Timeout:  r.Timeout,
	}
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = v
		}
	}
	if r.Params != nil {
		out.Params = make(map[string]string, len(r.Params))
		for k, v := range r.Params {
			out.Params[k] = v
		}
	}
	if r.FormBody != nil {
		out.FormBody = make(map[string]string, len(r.FormBody))
		for k, v := range r.FormBody {
			out.FormBody[k] = v
		}
	}
	return out
}

// Response is the uniform view of an HTTP response every transport returns.
// The body is fully read and buffered by the transport so it can be inspected
// repeatedly by plugins, middleware and the client.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the raw body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// JSON unmarshals the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}
