package patternmatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned by Match before Start is called.
	ErrNotStarted = errors.New("pattern matcher not started")
	// ErrClosed is returned by Match after the matcher has stopped.
	ErrClosed = errors.New("pattern matcher closed")
)

type job struct {
	req   Request
	reply chan Response
}

// Matcher runs match requests on a pool of worker goroutines.
type Matcher struct {
	logger  *zap.Logger
	timeout time.Duration
	workers int

	jobs chan job
	done chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	started bool
	closed  bool
	unwatch func() bool
}

// New creates a matcher. Call Start before Match.
func New(cfg Config, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	queue := cfg.QueueSize
	if queue < 0 {
		queue = 0
	}
	return &Matcher{
		logger:  logger,
		timeout: cfg.Timeout(),
		workers: workers,
		jobs:    make(chan job, queue),
		done:    make(chan struct{}),
	}
}

// Start launches the workers. The matcher closes itself when ctx is done, after
// which Match returns ErrClosed.
func (m *Matcher) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started || m.closed {
		return
	}
	m.started = true
	m.unwatch = context.AfterFunc(ctx, m.Close)

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.work()
	}
	m.logger.Debug("Pattern matcher started", zap.Int("workers", m.workers), zap.Duration("timeout", m.timeout))
}

// Close stops the workers and waits for them to exit.
func (m *Matcher) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.done)
	unwatch := m.unwatch
	m.mu.Unlock()

	if unwatch != nil {
		unwatch()
	}

	m.wg.Wait()
}

// Match sends req to a worker and waits for its response. The error is only
// non-nil when ctx is done or the matcher is not running; pattern failures are
// reported in Response.Error.
func (m *Matcher) Match(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	started, closed := m.started, m.closed
	m.mu.Unlock()

	if closed {
		return Response{}, ErrClosed
	}
	if !started {
		return Response{}, ErrNotStarted
	}

	j := job{req: req, reply: make(chan Response, 1)}
	select {
	case m.jobs <- j:
	case <-m.done:
		return Response{}, ErrClosed
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}

	select {
	case resp := <-j.reply:
		return resp, nil
	case <-m.done:
		return Response{}, ErrClosed
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

func (m *Matcher) work() {
	defer m.wg.Done()
	for {
		select {
		case j := <-m.jobs:
			j.reply <- m.execute(j.req)
		case <-m.done:
			return
		}
	}
}

func (m *Matcher) execute(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Pattern execution panicked", zap.String("pattern", req.Pattern), zap.Any("panic", r))
			resp = Response{Error: fmt.Sprint(r)}
		}
	}()

	re, err := regexp2.Compile(req.Pattern, regexp2.ECMAScript)
	if err != nil {
		return Response{Error: err.Error()}
	}
	re.MatchTimeout = m.timeout

	match, err := re.FindStringMatch(req.Text)
	if err != nil {
		m.logger.Debug("Pattern execution failed", zap.String("pattern", req.Pattern), zap.Error(err))
		return Response{Error: err.Error()}
	}
	if match == nil {
		return Response{}
	}

	result := &Match{
		Index: utf16Offset(req.Text, match.Index),
		Input: req.Text,
	}
	for _, g := range match.Groups() {
		value := ""
		if len(g.Captures) > 0 {
			value = g.String()
		}
		result.Groups = append(result.Groups, value)

		if _, err := strconv.Atoi(g.Name); err != nil {
			if result.Named == nil {
				result.Named = make(map[string]string)
			}
			result.Named[g.Name] = value
		}
	}
	return Response{Result: result}
}

// utf16Offset converts an offset of n runes into text to UTF-16 code units.
func utf16Offset(text string, n int) int {
	units := 0
	for _, r := range text {
		if n == 0 {
			break
		}
		if l := utf16.RuneLen(r); l > 0 {
			units += l
		} else {
			units++
		}
		n--
	}
	return units
}
