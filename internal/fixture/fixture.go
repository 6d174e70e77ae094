// Package fixture builds the per-test objects a spec asks for and tears
// them down when the spec ends.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
)

var (
	// ErrUnknownFixture is returned for names missing from the registry.
	ErrUnknownFixture = errors.New("unknown fixture")
	// ErrScopeClosed is returned by Get after Close.
	ErrScopeClosed = errors.New("fixture scope is closed")
)

// State is the lifecycle position of one fixture within a scope.
type State int

const (
	Uninitialized State = iota
	Active
	TornDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case TornDown:
		return "torn down"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// HandleSource hands out the driving handles of one test. The source owns
// them and releases them after the test.
type HandleSource interface {
	Page(ctx context.Context) (playwright.Page, error)
	Request(ctx context.Context) (playwright.APIRequestContext, error)
}

// Factory builds a fixture value. The teardown may be nil.
type Factory func(ctx context.Context, h *Handles) (value any, teardown func() error, err error)

// Registry maps fixture names to factories.
type Registry struct {
	factories map[string]Factory
	names     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds f under name, replacing any existing factory.
func (r *Registry) Register(name string, f Factory) *Registry {
	if _, ok := r.factories[name]; !ok {
		r.names = append(r.names, name)
	}
	r.factories[name] = f
	return r
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// NewScope starts a fixture scope for one test.
func (r *Registry) NewScope(ctx context.Context, src HandleSource) *Scope {
	s := &Scope{
		ctx:       ctx,
		registry:  r,
		handles:   &Handles{ctx: ctx, src: src},
		states:    map[string]State{},
		values:    map[string]any{},
		teardowns: map[string]func() error{},
	}
	for _, name := range r.names {
		s.states[name] = Uninitialized
	}
	return s
}

// Handles acquires the driving handles lazily, at most once per scope. A
// failed acquisition is remembered and returned to every later caller.
type Handles struct {
	ctx context.Context
	src HandleSource

	mu       sync.Mutex
	pageDone bool
	page     playwright.Page
	pageErr  error
	reqDone  bool
	req      playwright.APIRequestContext
	reqErr   error
}

// Page returns the browser tab of the test.
func (h *Handles) Page() (playwright.Page, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.pageDone {
		h.page, h.pageErr = h.src.Page(h.ctx)
		if h.pageErr != nil {
			h.pageErr = fmt.Errorf("acquiring page: %w", h.pageErr)
		}
		h.pageDone = true
	}
	return h.page, h.pageErr
}

// Request returns the HTTP request context of the test.
func (h *Handles) Request() (playwright.APIRequestContext, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.reqDone {
		h.req, h.reqErr = h.src.Request(h.ctx)
		if h.reqErr != nil {
			h.reqErr = fmt.Errorf("acquiring request context: %w", h.reqErr)
		}
		h.reqDone = true
	}
	return h.req, h.reqErr
}

// Scope holds the fixtures of one test.
type Scope struct {
	ctx      context.Context
	registry *Registry
	handles  *Handles

	mu        sync.Mutex
	closed    bool
	states    map[string]State
	values    map[string]any
	teardowns map[string]func() error
	active    []string
}

// State reports the state of the named fixture.
func (s *Scope) State(name string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[name]
}

func (s *Scope) get(name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("fixture %q: %w", name, ErrScopeClosed)
	}
	factory, ok := s.registry.factories[name]
	if !ok {
		return nil, fmt.Errorf("fixture %q: %w", name, ErrUnknownFixture)
	}
	if s.states[name] == Active {
		return s.values[name], nil
	}

	value, teardown, err := factory(s.ctx, s.handles)
	if err != nil {
		return nil, fmt.Errorf("setting up fixture %q: %w", name, err)
	}

	s.states[name] = Active
	s.values[name] = value
	s.teardowns[name] = teardown
	s.active = append(s.active, name)
	return value, nil
}

// Close tears down every active fixture, latest first. All teardowns run;
// their errors are joined. Later calls do nothing.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := len(s.active) - 1; i >= 0; i-- {
		name := s.active[i]
		if teardown := s.teardowns[name]; teardown != nil {
			if err := teardown(); err != nil {
				errs = append(errs, fmt.Errorf("tearing down fixture %q: %w", name, err))
			}
		}
	}
	for name := range s.states {
		s.states[name] = TornDown
	}
	s.values = map[string]any{}
	s.active = nil
	return errors.Join(errs...)
}

// Get returns the named fixture as a T, building it on first use.
func Get[T any](s *Scope, name string) (T, error) {
	var zero T
	v, err := s.get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("fixture %q is %T, not %T", name, v, zero)
	}
	return typed, nil
}
