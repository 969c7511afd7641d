package offerskit

import (
	"context"
)

// RequestPlugin transforms an outbound request descriptor before it is sent.
// Plugins carry business logic (validation, enrichment, header injection);
// cross-cutting observation belongs to middleware.
type RequestPlugin interface {
	ProcessRequest(ctx context.Context, req *Request) (*Request, error)
}

// ResponsePlugin transforms an inbound response after it is received. A
// plugin may return a new response or the one it was given.
type ResponsePlugin interface {
	ProcessResponse(ctx context.Context, resp *Response) (*Response, error)
}

// PluginManager applies ordered chains of request and response plugins.
// Registration order is execution order; duplicates are legal and run once
// per registration. A plugin error aborts the fold and propagates unchanged;
// there is no partial-application rollback.
type PluginManager struct {
	requestPlugins  []RequestPlugin
	responsePlugins []ResponsePlugin
}

// NewPluginManager creates an empty manager.
func NewPluginManager() *PluginManager {
	return &PluginManager{}
}

// AddRequestPlugin appends a request plugin to the chain.
func (m *PluginManager) AddRequestPlugin(p RequestPlugin) {
	m.requestPlugins = append(m.requestPlugins, p)
}

// AddResponsePlugin appends a response plugin to the chain.
func (m *PluginManager) AddResponsePlugin(p ResponsePlugin) {
	m.responsePlugins = append(m.responsePlugins, p)
}

// RemoveRequestPlugin removes the first matching instance from the chain.
func (m *PluginManager) RemoveRequestPlugin(p RequestPlugin) {
	for i, existing := range m.requestPlugins {
		if existing == p {
			m.requestPlugins = append(m.requestPlugins[:i], m.requestPlugins[i+1:]...)
			return
		}
	}
}

// RemoveResponsePlugin removes the first matching instance from the chain.
func (m *PluginManager) RemoveResponsePlugin(p ResponsePlugin) {
	for i, existing := range m.responsePlugins {
		if existing == p {
			m.responsePlugins = append(m.responsePlugins[:i], m.responsePlugins[i+1:]...)
			return
		}
	}
}

// ProcessRequest folds the descriptor through every request plugin in
// registration order. The first plugin receives a defensive copy, so the
// caller's maps are never mutated regardless of plugin behavior.
func (m *PluginManager) ProcessRequest(ctx context.Context, req *Request) (*Request, error) {
	current := req.Clone()
	for _, plugin := range m.requestPlugins {
		next, err := plugin.ProcessRequest(ctx, current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// ProcessResponse folds the response through every response plugin in
// registration order. With no plugins registered the input is returned
// unchanged, same reference.
func (m *PluginManager) ProcessResponse(ctx context.Context, resp *Response) (*Response, error) {
	current := resp
	for _, plugin := range m.responsePlugins {
		next, err := plugin.ProcessResponse(ctx, current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}
