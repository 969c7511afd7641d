package offerskit

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// headerPlugin appends a marker to a header so ordering is observable.
type headerPlugin struct {
	marker string
}

func (p headerPlugin) ProcessRequest(_ context.Context, req *Request) (*Request, error) {
	out := req.Clone()
	if out.Headers == nil {
		out.Headers = map[string]string{}
	}
	out.Headers["X-Trace"] += p.marker
	return out, nil
}

type failingPlugin struct{}

func (failingPlugin) ProcessRequest(context.Context, *Request) (*Request, error) {
	return nil, errors.New("plugin rejected request")
}

type taggingResponsePlugin struct{}

func (taggingResponsePlugin) ProcessResponse(_ context.Context, resp *Response) (*Response, error) {
	out := *resp
	out.Body = append([]byte("tagged:"), resp.Body...)
	return &out, nil
}

func TestPluginManagerEmptyChainClonesRequest(t *testing.T) {
	pm := NewPluginManager()
	original := &Request{
		Method:  "GET",
		URL:     "http://offers.test",
		Headers: map[string]string{"Bearer": "a"},
	}

	out, err := pm.ProcessRequest(context.Background(), original)
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if out == original {
		t.Fatal("empty chain returned the same pointer, want a defensive copy")
	}

	out.Headers["Bearer"] = "mutated"
	if original.Headers["Bearer"] != "a" {
		t.Error("mutating the output corrupted the caller's request")
	}
}

func TestPluginManagerFoldOrder(t *testing.T) {
	pm := NewPluginManager()
	pm.AddRequestPlugin(headerPlugin{marker: "a"})
	pm.AddRequestPlugin(headerPlugin{marker: "b"})
	pm.AddRequestPlugin(headerPlugin{marker: "c"})

	out, err := pm.ProcessRequest(context.Background(), &Request{Method: "GET", URL: "http://x"})
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if got := out.Headers["X-Trace"]; got != "abc" {
		t.Errorf("X-Trace = %q, want %q (registration order)", got, "abc")
	}
}

func TestPluginManagerDuplicateRegistrationRunsTwice(t *testing.T) {
	pm := NewPluginManager()
	p := headerPlugin{marker: "x"}
	pm.AddRequestPlugin(p)
	pm.AddRequestPlugin(p)

	out, err := pm.ProcessRequest(context.Background(), &Request{Method: "GET", URL: "http://x"})
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if got := out.Headers["X-Trace"]; got != "xx" {
		t.Errorf("X-Trace = %q, want %q", got, "xx")
	}
}

func TestPluginManagerErrorAbortsFold(t *testing.T) {
	pm := NewPluginManager()
	pm.AddRequestPlugin(headerPlugin{marker: "a"})
	pm.AddRequestPlugin(failingPlugin{})
	pm.AddRequestPlugin(headerPlugin{marker: "c"})

	_, err := pm.ProcessRequest(context.Background(), &Request{Method: "GET", URL: "http://x"})
	if err == nil || !strings.Contains(err.Error(), "plugin rejected request") {
		t.Fatalf("error = %v, want the plugin failure unchanged", err)
	}
}

func TestPluginManagerRemoveFirstMatchOnly(t *testing.T) {
	pm := NewPluginManager()
	p := headerPlugin{marker: "x"}
	pm.AddRequestPlugin(p)
	pm.AddRequestPlugin(p)
	pm.RemoveRequestPlugin(p)

	out, err := pm.ProcessRequest(context.Background(), &Request{Method: "GET", URL: "http://x"})
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if got := out.Headers["X-Trace"]; got != "x" {
		t.Errorf("X-Trace = %q, want one remaining registration", got)
	}

	// Removing a plugin that is not registered is a no-op.
	pm.RemoveRequestPlugin(headerPlugin{marker: "ghost"})
}

func TestPluginManagerResponseIdentityWhenEmpty(t *testing.T) {
	pm := NewPluginManager()
	resp := &Response{StatusCode: 200, Body: []byte("body")}

	out, err := pm.ProcessResponse(context.Background(), resp)
	if err != nil {
		t.Fatalf("ProcessResponse() error = %v", err)
	}
	if out != resp {
		t.Error("empty response chain should return the same reference")
	}
}

func TestPluginManagerResponseFold(t *testing.T) {
	pm := NewPluginManager()
	pm.AddResponsePlugin(taggingResponsePlugin{})

	out, err := pm.ProcessResponse(context.Background(), &Response{StatusCode: 200, Body: []byte("body")})
	if err != nil {
		t.Fatalf("ProcessResponse() error = %v", err)
	}
	if out.Text() != "tagged:body" {
		t.Errorf("body = %q", out.Text())
	}
}

func TestProductValidationPluginTrimsAndValidates(t *testing.T) {
	plugin := ProductValidationPlugin{}
	ctx := context.Background()

	out, err := plugin.ProcessRequest(ctx, &Request{
		JSONBody: RegisterProductRequest{ID: "p", Name: "  Widget  "},
	})
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if got := out.JSONBody.(RegisterProductRequest).Name; got != "Widget" {
		t.Errorf("Name = %q, want trimmed", got)
	}

	_, err = plugin.ProcessRequest(ctx, &Request{
		JSONBody: RegisterProductRequest{ID: "p", Name: "   "},
	})
	if !errors.Is(err, ErrEmptyProductName) {
		t.Errorf("error = %v, want ErrEmptyProductName", err)
	}
}

func TestProductValidationPluginTruncatesDescription(t *testing.T) {
	plugin := ProductValidationPlugin{}

	long := strings.Repeat("é", maxDescriptionLength+50)
	out, err := plugin.ProcessRequest(context.Background(), &Request{
		JSONBody: RegisterProductRequest{ID: "p", Name: "n", Description: long},
	})
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}

	desc := out.JSONBody.(RegisterProductRequest).Description
	if !strings.HasSuffix(desc, "...") {
		t.Errorf("truncated description lacks ellipsis: %q...", desc[:20])
	}
	if got := len([]rune(desc)); got != maxDescriptionLength+3 {
		t.Errorf("rune length = %d, want %d", got, maxDescriptionLength+3)
	}
}

func TestProductValidationPluginIgnoresOtherBodies(t *testing.T) {
	plugin := ProductValidationPlugin{}
	req := &Request{JSONBody: map[string]string{"k": "v"}}

	out, err := plugin.ProcessRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if out != req {
		t.Error("non-product bodies should pass through untouched")
	}
}

func TestRequestIDPluginDefaults(t *testing.T) {
	plugin := &RequestIDPlugin{}

	out, err := plugin.ProcessRequest(context.Background(), &Request{Method: "GET", URL: "http://x"})
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if out.Headers["X-Request-Id"] == "" {
		t.Error("X-Request-Id header not set")
	}
}

func TestRequestIDPluginCustomHeaderAndGenerator(t *testing.T) {
	plugin := &RequestIDPlugin{
		Header:   "X-Correlation-Id",
		Generate: func() string { return "fixed-id" },
	}

	out, err := plugin.ProcessRequest(context.Background(), &Request{Method: "GET", URL: "http://x"})
	if err != nil {
		t.Fatalf("ProcessRequest() error = %v", err)
	}
	if got := out.Headers["X-Correlation-Id"]; got != "fixed-id" {
		t.Errorf("X-Correlation-Id = %q", got)
	}
}
