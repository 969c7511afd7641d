package flight

import "sync"

// Group coalesces concurrent calls for the same key into one execution.
// It exists so that two goroutines noticing an expired access token at the
// same moment trigger a single refresh rather than two.
type Group struct {
	mu sync.Mutex
	m  map[string]*call
}

// call represents an active or completed function call.
type call struct {
	wg  sync.WaitGroup
	val interface{}
	err error
}

// New creates a new Group.
func New() *Group {
	return &Group{
		m: make(map[string]*call),
	}
}

// Do executes fn, making sure only one execution is in-flight for a given key
// at a time. Duplicate callers wait for the original to complete and receive
// the same result.
func (g *Group) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err
	}

	c := &call{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	// Drop the entry as soon as the call completes. Callers arriving later
	// must trigger a fresh execution; only genuinely concurrent callers share
	// a result. A refresh forced by a rejected token must never be served the
	// token that was just rejected.
	g.mu.Lock()
	if g.m[key] == c {
		delete(g.m, key)
	}
	g.mu.Unlock()

	return c.val, c.err
}

// Forget removes the key from the group's map, allowing the next call with
// the same key to execute even if a previous call is still in progress.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}
