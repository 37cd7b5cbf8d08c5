package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log-console/core/asyncdata"

	"go.uber.org/zap"
)

// Kind selects the data a view loads.
type Kind string

const (
	KindLogConfigs Kind = "logconfigs"
	KindSamples    Kind = "samples"
)

// Params are the inputs of a new view.
type Params struct {
	Kind   Kind   `json:"kind"`
	Filter string `json:"filter"`
	Page   int    `json:"page"`
	Size   int    `json:"size"`
}

// Patch changes the dependencies of a view. Nil fields are kept.
type Patch struct {
	Filter *string `json:"filter"`
	Page   *int    `json:"page"`
}

// Snapshot is the externally visible state of a view.
type Snapshot struct {
	ID            string  `json:"id"`
	Kind          Kind    `json:"kind"`
	Filter        string  `json:"filter"`
	Page          int     `json:"page"`
	Data          any     `json:"data"`
	IsLoadingData bool    `json:"isLoadingData"`
	DataError     *string `json:"dataError"`
	LastData      any     `json:"lastData"`
}

// fetchFunc loads the data of a view for one dependency set.
type fetchFunc func(ctx context.Context, filter string, page int) (any, error)

type view struct {
	id    string
	kind  Kind
	fetch fetchFunc
	ctrl  *asyncdata.Controller[any]

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	filter   string
	page     int
	lastSeen time.Time
}

func newView(id string, kind Kind, fetch fetchFunc, logger *zap.Logger) *view {
	ctx, cancel := context.WithCancel(context.Background())
	l := logger.With(zap.String("view", id), zap.String("kind", string(kind)))

	v := &view{
		id:     id,
		kind:   kind,
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
	}
	v.ctrl = asyncdata.New[any](l, asyncdata.Options[any]{
		OnDataError: func(err error) error {
			l.Warn("View load failed", zap.Error(err))
			return fmt.Errorf("failed to load %s: %w", kind, err)
		},
	})
	v.ctrl.Attach()
	return v
}

// generator returns the fetch cycle for the given dependencies.
func (v *view) generator(filter string, page int) asyncdata.Generator[any] {
	return func() *asyncdata.Future[any] {
		return asyncdata.Go(v.ctx, func(ctx context.Context) (any, error) {
			return v.fetch(ctx, filter, page)
		})
	}
}

// apply moves the view to new dependencies and reports whether a load started.
func (v *view) apply(p Patch, now time.Time) bool {
	v.mu.Lock()
	if p.Filter != nil {
		v.filter = *p.Filter
	}
	if p.Page != nil {
		v.page = *p.Page
	}
	filter, page := v.filter, v.page
	v.lastSeen = now
	v.mu.Unlock()

	return v.ctrl.Initialize(v.generator(filter, page), filter, page)
}

func (v *view) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *view) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

// close detaches the controller and cancels in-flight loads.
func (v *view) close() {
	v.ctrl.Detach()
	v.cancel()
}

func (v *view) snapshot() *Snapshot {
	v.mu.Lock()
	filter, page := v.filter, v.page
	v.mu.Unlock()

	state := v.ctrl.State()
	s := &Snapshot{
		ID:            v.id,
		Kind:          v.kind,
		Filter:        filter,
		Page:          page,
		IsLoadingData: state.IsLoading,
	}
	if state.Data != nil {
		s.Data = *state.Data
	}
	if state.LastData != nil {
		s.LastData = *state.LastData
	}
	if state.Error != nil {
		msg := state.Error.Error()
		s.DataError = &msg
	}
	return s
}
