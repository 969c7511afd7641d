package flight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoReturnsResult(t *testing.T) {
	g := New()

	val, err := g.Do("key", func() (interface{}, error) {
		return "result", nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if val != "result" {
		t.Errorf("val = %v", val)
	}
}

func TestDoPropagatesError(t *testing.T) {
	g := New()
	boom := errors.New("boom")

	_, err := g.Do("key", func() (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestConcurrentCallsCoalesce(t *testing.T) {
	g := New()
	var executions atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]interface{}, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			val, err := g.Do("key", func() (interface{}, error) {
				executions.Add(1)
				<-release
				return "shared", nil
			})
			if err != nil {
				t.Errorf("Do() error = %v", err)
			}
			results[i] = val
		}(i)
	}

	// Give every goroutine a chance to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Errorf("executions = %d, want 1", got)
	}
	for i, val := range results {
		if val != "shared" {
			t.Errorf("results[%d] = %v, want shared", i, val)
		}
	}
}

// A caller arriving after the previous call completed must trigger a fresh
// execution, never be served the stale result.
func TestSequentialCallsDoNotCoalesce(t *testing.T) {
	g := New()
	var executions atomic.Int32

	for i := 0; i < 3; i++ {
		val, err := g.Do("key", func() (interface{}, error) {
			return executions.Add(1), nil
		})
		if err != nil {
			t.Fatalf("Do() #%d error = %v", i, err)
		}
		if val != int32(i+1) {
			t.Errorf("call %d returned %v, want %d", i, val, i+1)
		}
	}
}

func TestDifferentKeysRunIndependently(t *testing.T) {
	g := New()
	var executions atomic.Int32

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			g.Do(key, func() (interface{}, error) {
				executions.Add(1)
				return key, nil
			})
		}(key)
	}
	wg.Wait()

	if got := executions.Load(); got != 3 {
		t.Errorf("executions = %d, want 3", got)
	}
}

func TestForgetAllowsParallelExecution(t *testing.T) {
	g := New()
	var executions atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	go g.Do("key", func() (interface{}, error) {
		executions.Add(1)
		close(started)
		<-release
		return nil, nil
	})

	<-started
	g.Forget("key")

	done := make(chan struct{})
	go func() {
		g.Do("key", func() (interface{}, error) {
			executions.Add(1)
			return nil, nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second call blocked on the forgotten key")
	}
	close(release)

	if got := executions.Load(); got != 2 {
		t.Errorf("executions = %d, want 2", got)
	}
}
