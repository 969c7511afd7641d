package offerskit

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// maxDescriptionLength is the business cap on product descriptions. The
// transport places no limit; trimming is a plugin-layer rule.
const maxDescriptionLength = 1000

// ProductValidationPlugin sanitizes registration payloads before they leave
// the process: names are trimmed and must be non-empty, oversized
// descriptions are truncated.
type ProductValidationPlugin struct{}

// ErrEmptyProductName is returned when a registration payload has a blank
// name after trimming.
var ErrEmptyProductName = errors.New("product name cannot be empty")

// ProcessRequest implements RequestPlugin.
func (ProductValidationPlugin) ProcessRequest(_ context.Context, req *Request) (*Request, error) {
	product, ok := req.JSONBody.(RegisterProductRequest)
	if !ok {
		return req, nil
	}

	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, ErrEmptyProductName
	}
	if runes := []rune(product.Description); len(runes) > maxDescriptionLength {
		product.Description = string(runes[:maxDescriptionLength]) + "..."
	}

	out := req.Clone()
	out.JSONBody = product
	return out, nil
}

// RequestIDPlugin stamps every outbound request with a correlation header.
type RequestIDPlugin struct {
	// Header defaults to "X-Request-Id".
	Header string
	// Generate defaults to uuid.NewString.
	Generate func() string
}

// ProcessRequest implements RequestPlugin.
func (p *RequestIDPlugin) ProcessRequest(_ context.Context, req *Request) (*Request, error) {
	header := p.Header
	if header == "" {
		header = "X-Request-Id"
	}
	generate := p.Generate
	if generate == nil {
		generate = uuid.NewString
	}

	out := req.Clone()
	if out.Headers == nil {
		out.Headers = make(map[string]string, 1)
	}
	out.Headers[header] = generate()
	return out, nil
}
