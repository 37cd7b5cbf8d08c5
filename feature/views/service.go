package views

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"log-console/feature/logconfig/models"
	"log-console/feature/samples"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxViews bounds the number of open views.
const MaxViews = 256

// LogConfigLister lists log configurations.
type LogConfigLister interface {
	List(ctx context.Context, filter string, page, size int) (*models.Page, error)
}

// SampleLister lists sample logs.
type SampleLister interface {
	List(ctx context.Context, prefix string) ([]samples.Sample, error)
}

// Options tune the view registry.
type Options struct {
	// IdleTTL is how long a view may go untouched before the janitor closes it.
	IdleTTL time.Duration
	// Wait bounds how long a read with wait=true blocks.
	Wait time.Duration
}

// Service keeps the open console views.
type Service struct {
	configs LogConfigLister
	samples SampleLister
	opts    Options
	logger  *zap.Logger
	now     func() time.Time

	mu    sync.Mutex
	views map[string]*view
}

// NewService creates a view registry. Either lister may be nil, in which case
// views of that kind cannot be created.
func NewService(configs LogConfigLister, samples SampleLister, opts Options, logger *zap.Logger) *Service {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 5 * time.Minute
	}
	if opts.Wait <= 0 {
		opts.Wait = 10 * time.Second
	}
	return &Service{
		configs: configs,
		samples: samples,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		views:   make(map[string]*view),
	}
}

// Create opens a view and starts its first load.
func (s *Service) Create(p Params) (*Snapshot, error) {
	kind, err := ParseKind(string(p.Kind))
	if err != nil {
		return nil, err
	}
	p.Kind = kind
	fetch, err := s.fetcher(p)
	if err != nil {
		return nil, err
	}
	if p.Page <= 0 {
		p.Page = 1
	}

	s.mu.Lock()
	if len(s.views) >= MaxViews {
		s.mu.Unlock()
		return nil, ErrTooManyViews
	}
	v := newView(uuid.NewString(), p.Kind, fetch, s.logger)
	s.views[v.id] = v
	s.mu.Unlock()

	v.apply(Patch{Filter: &p.Filter, Page: &p.Page}, s.now())
	s.logger.Info("View opened", zap.String("view", v.id), zap.String("kind", string(p.Kind)))
	return v.snapshot(), nil
}

// Get returns a view's state. With wait set, it blocks until the current load
// settles or the configured wait elapses; a view still loading after that is
// returned as is.
func (s *Service) Get(ctx context.Context, id string, wait bool) (*Snapshot, error) {
	v, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	v.touch(s.now())

	if wait {
		ctx, cancel := context.WithTimeout(ctx, s.opts.Wait)
		defer cancel()
		if _, err := v.ctrl.Wait(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
	}
	return v.snapshot(), nil
}

// Update changes a view's dependencies. A load starts only if they differ.
func (s *Service) Update(id string, p Patch) (*Snapshot, error) {
	v, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if v.apply(p, s.now()) {
		s.logger.Debug("View dependencies changed", zap.String("view", id))
	}
	return v.snapshot(), nil
}

// Reload starts a new load with unchanged dependencies.
func (s *Service) Reload(id string) (*Snapshot, error) {
	v, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	v.touch(s.now())
	v.ctrl.Reload()
	return v.snapshot(), nil
}

// Delete closes a view. Its in-flight load is cancelled and discarded.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	v, ok := s.views[id]
	delete(s.views, id)
	s.mu.Unlock()

	if !ok {
		return ErrViewNotFound
	}
	v.close()
	s.logger.Info("View closed", zap.String("view", id))
	return nil
}

// Count returns the number of open views.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Run closes idle views until ctx is done, then closes every remaining view.
func (s *Service) Run(ctx context.Context) {
	interval := s.opts.IdleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			s.Close()
			return
		}
	}
}

// Sweep closes the views idle for longer than the TTL and returns how many it closed.
func (s *Service) Sweep() int {
	now := s.now()

	s.mu.Lock()
	var expired []*view
	for id, v := range s.views {
		if v.idleSince(now) > s.opts.IdleTTL {
			expired = append(expired, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		v.close()
		s.logger.Info("Idle view closed", zap.String("view", v.id))
	}
	return len(expired)
}

// Close closes every view.
func (s *Service) Close() {
	s.mu.Lock()
	open := s.views
	s.views = make(map[string]*view)
	s.mu.Unlock()

	for _, v := range open {
		v.close()
	}
}

func (s *Service) lookup(id string) (*view, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

func (s *Service) fetcher(p Params) (fetchFunc, error) {
	switch p.Kind {
	case KindLogConfigs:
		if s.configs == nil {
			return nil, ErrUnavailable
		}
		size := p.Size
		return func(ctx context.Context, filter string, page int) (any, error) {
			return s.configs.List(ctx, filter, page, size)
		}, nil
	case KindSamples:
		if s.samples == nil {
			return nil, ErrUnavailable
		}
		size := p.Size
		return func(ctx context.Context, filter string, page int) (any, error) {
			items, err := s.samples.List(ctx, filter)
			if err != nil {
				return nil, err
			}
			return paginate(items, page, size), nil
		}, nil
	default:
		return nil, ErrInvalidKind
	}
}

// SamplePage is one page of a samples view.
type SamplePage struct {
	Items []samples.Sample `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

func paginate(items []samples.Sample, page, size int) *SamplePage {
	if size <= 0 {
		size = 20
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return &SamplePage{Items: items[start:end], Total: len(items), Page: page, Size: size}
}

// ParseKind returns the kind named by s, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindLogConfigs:
		return KindLogConfigs, nil
	case KindSamples:
		return KindSamples, nil
	}
	return "", ErrInvalidKind
}
