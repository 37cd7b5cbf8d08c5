package asyncdata

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Generator produces the request for one fetch cycle. Returning nil means there
// is nothing to fetch this cycle. It runs while the controller is starting the
// cycle and must not call Initialize or Reload on the same controller.
type Generator[T any] func() *Future[T]

// Options customise how settled requests are stored.
type Options[T any] struct {
	// OnDataReady is called with the fetched data and the value that is about to
	// become LastData. When it returns true, the returned value is stored instead
	// of the fetched one.
	OnDataReady func(data T, lastData *T) (T, bool)
	// OnDataError is called with the rejection reason. A non-nil return replaces
	// the stored error.
	OnDataError func(err error) error
	// CleanData forces LastData to nil on every successful commit.
	CleanData bool
}

// State is a snapshot of a controller's data.
type State[T any] struct {
	IsLoading bool
	Data      *T
	LastData  *T
	Error     error
}

// Controller manages the lifecycle of one asynchronous data-fetch operation.
// It is safe for concurrent use.
type Controller[T any] struct {
	logger *zap.Logger
	opts   Options[T]

	// cycle serialises Initialize and Reload so the last caller's request is
	// the one left current.
	cycle sync.Mutex

	mu         sync.Mutex
	attached   bool
	stop       chan struct{}
	generation uint64
	current    *Future[T]

	gen        Generator[T]
	deps       []any
	evaluated  bool
	reload     bool
	seenReload bool

	state   State[T]
	changed chan struct{}
	subs    map[chan struct{}]struct{}
}

// New returns a detached controller. Call Attach before Initialize.
func New[T any](logger *zap.Logger, opts Options[T]) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		logger:  logger,
		opts:    opts,
		changed: make(chan struct{}),
		subs:    make(map[chan struct{}]struct{}),
	}
}

// Attach binds the controller to its owner. A re-attached controller starts
// from an empty state and runs its next Initialize unconditionally.
func (c *Controller[T]) Attach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attached {
		return
	}
	c.attached = true
	c.stop = make(chan struct{})
	c.evaluated = false
	c.deps = nil
	c.state = State[T]{}
	c.notifyLocked()
}

// Detach tears the controller down. In-flight requests keep running but their
// outcome is discarded.
func (c *Controller[T]) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.attached {
		return
	}
	c.attached = false
	c.generation++
	c.current = nil
	close(c.stop)
	c.state.IsLoading = false
	c.notifyLocked()
}

// Attached reports whether the controller is bound to an owner.
func (c *Controller[T]) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// Initialize starts a new fetch cycle when deps differ from the previous call,
// on the first call after Attach, or when Reload was called since the last
// cycle. It reports whether a new request was accepted.
func (c *Controller[T]) Initialize(gen Generator[T], deps ...any) bool {
	c.cycle.Lock()
	defer c.cycle.Unlock()
	return c.initialize(gen, deps)
}

// Reload forces a new fetch cycle with the last generator and dependencies.
func (c *Controller[T]) Reload() bool {
	c.cycle.Lock()
	defer c.cycle.Unlock()

	c.mu.Lock()
	c.reload = !c.reload
	gen, deps := c.gen, c.deps
	c.mu.Unlock()

	if gen == nil {
		return false
	}
	return c.initialize(gen, deps)
}

// initialize must be called with c.cycle held.
func (c *Controller[T]) initialize(gen Generator[T], deps []any) bool {
	c.mu.Lock()
	if !c.attached {
		c.mu.Unlock()
		return false
	}
	c.gen = gen
	if c.evaluated && c.seenReload == c.reload && SameDeps(c.deps, deps) {
		c.mu.Unlock()
		return false
	}
	c.evaluated = true
	c.seenReload = c.reload
	c.deps = append([]any(nil), deps...)
	c.mu.Unlock()

	return c.run(gen)
}

func (c *Controller[T]) run(gen Generator[T]) bool {
	f := gen()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.attached {
		return false
	}
	if f == nil || f == c.current {
		c.state.IsLoading = false
		c.notifyLocked()
		return false
	}

	c.generation++
	c.current = f
	c.state.IsLoading = true
	c.notifyLocked()

	go c.await(f, c.generation, c.stop)
	return true
}

func (c *Controller[T]) await(f *Future[T], generation uint64, stop <-chan struct{}) {
	select {
	case <-f.Done():
	case <-stop:
		return
	}

	v, err := f.Result()
	if err != nil {
		c.reject(generation, err)
		return
	}
	c.resolve(generation, v)
}

func (c *Controller[T]) resolve(generation uint64, v T) {
	c.mu.Lock()
	if !c.currentLocked(generation) {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale result", zap.Uint64("generation", generation))
		return
	}
	var lastData *T
	if !c.opts.CleanData {
		lastData = c.state.Data
	}
	c.mu.Unlock()

	if c.opts.OnDataReady != nil {
		if replaced, ok := c.opts.OnDataReady(v, lastData); ok {
			v = replaced
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.currentLocked(generation) {
		c.logger.Debug("Discarding stale result", zap.Uint64("generation", generation))
		return
	}
	c.state.LastData = lastData
	c.state.Data = &v
	c.state.Error = nil
	c.state.IsLoading = false
	c.notifyLocked()
}

func (c *Controller[T]) reject(generation uint64, err error) {
	c.mu.Lock()
	if !c.currentLocked(generation) {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale error", zap.Uint64("generation", generation), zap.Error(err))
		return
	}
	c.mu.Unlock()

	if c.opts.OnDataError != nil {
		if replaced := c.opts.OnDataError(err); replaced != nil {
			err = replaced
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.currentLocked(generation) {
		c.logger.Debug("Discarding stale error", zap.Uint64("generation", generation), zap.Error(err))
		return
	}
	c.state.Error = err
	c.state.IsLoading = false
	c.notifyLocked()
}

func (c *Controller[T]) currentLocked(generation uint64) bool {
	return c.attached && c.generation == generation
}

// State returns a snapshot of the current state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until no request is loading or ctx is done.
func (c *Controller[T]) Wait(ctx context.Context) (State[T], error) {
	for {
		c.mu.Lock()
		state, changed := c.state, c.changed
		c.mu.Unlock()

		if !state.IsLoading {
			return state, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// Subscribe returns a channel that receives a signal after every state change.
// Signals are coalesced; read State to get the latest value. The returned
// function unsubscribes.
func (c *Controller[T]) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	return ch, func() {
		c.mu.Lock()
		delete(c.subs, ch)
		c.mu.Unlock()
	}
}

func (c *Controller[T]) notifyLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
	for ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
