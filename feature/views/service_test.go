package views

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"log-console/feature/logconfig/models"
	"log-console/feature/samples"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// fakeConfigs answers List from a callback and counts calls.
type fakeConfigs struct {
	calls int32
	list  func(ctx context.Context, filter string, page, size int) (*models.Page, error)
}

func (f *fakeConfigs) List(ctx context.Context, filter string, page, size int) (*models.Page, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.list(ctx, filter, page, size)
}

func (f *fakeConfigs) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}

func pageOf(filter string, page int) *models.Page {
	return &models.Page{Items: []models.LogConfig{{Name: filter}}, Total: 1, Page: page, Size: 20}
}

func echoConfigs() *fakeConfigs {
	return &fakeConfigs{list: func(_ context.Context, filter string, page, _ int) (*models.Page, error) {
		return pageOf(filter, page), nil
	}}
}

type fakeSamples []samples.Sample

func (f fakeSamples) List(_ context.Context, _ string) ([]samples.Sample, error) {
	return f, nil
}

func newService(configs LogConfigLister) *Service {
	return NewService(configs, fakeSamples{}, Options{IdleTTL: time.Minute, Wait: time.Second}, zap.NewNop())
}

func waitFor(t *testing.T, svc *Service, id string) *Snapshot {
	t.Helper()
	snap, err := svc.Get(context.Background(), id, true)
	require.NoError(t, err)
	require.False(t, snap.IsLoadingData)
	return snap
}

func TestService_CreateLoads(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	configs := echoConfigs()
	svc := newService(configs)
	defer svc.Close()

	snap, err := svc.Create(Params{Kind: "LogConfigs", Filter: "api"})
	require.NoError(t, err)
	assert.Equal(t, KindLogConfigs, snap.Kind)
	assert.Equal(t, 1, snap.Page)

	snap = waitFor(t, svc, snap.ID)
	page, ok := snap.Data.(*models.Page)
	require.True(t, ok)
	assert.Equal(t, "api", page.Items[0].Name)
	assert.Nil(t, snap.LastData)
	assert.Nil(t, snap.DataError)
	assert.Equal(t, 1, configs.Calls())
}

func TestService_Update(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	configs := echoConfigs()
	svc := newService(configs)
	defer svc.Close()

	snap, err := svc.Create(Params{Kind: KindLogConfigs, Filter: "api"})
	require.NoError(t, err)
	id := snap.ID
	waitFor(t, svc, id)

	t.Run("Unchanged deps do not reload", func(t *testing.T) {
		filter := "api"
		snap, err := svc.Update(id, Patch{Filter: &filter})
		require.NoError(t, err)
		assert.False(t, snap.IsLoadingData)
		assert.Equal(t, 1, configs.Calls())
	})

	t.Run("Changed page loads once and keeps the previous data", func(t *testing.T) {
		page := 2
		_, err := svc.Update(id, Patch{Page: &page})
		require.NoError(t, err)

		snap := waitFor(t, svc, id)
		assert.Equal(t, 2, configs.Calls())
		assert.Equal(t, 2, snap.Data.(*models.Page).Page)
		assert.Equal(t, 1, snap.LastData.(*models.Page).Page)
	})

	t.Run("Reload with unchanged deps loads once", func(t *testing.T) {
		_, err := svc.Reload(id)
		require.NoError(t, err)
		waitFor(t, svc, id)
		assert.Equal(t, 3, configs.Calls())
	})
}

func TestService_StaleResultDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	release := make(chan struct{})
	configs := &fakeConfigs{list: func(_ context.Context, filter string, page, _ int) (*models.Page, error) {
		if filter == "slow" {
			<-release
		}
		return pageOf(filter, page), nil
	}}
	svc := newService(configs)
	defer svc.Close()

	snap, err := svc.Create(Params{Kind: KindLogConfigs, Filter: "slow"})
	require.NoError(t, err)
	assert.True(t, snap.IsLoadingData)

	fast := "fast"
	_, err = svc.Update(snap.ID, Patch{Filter: &fast})
	require.NoError(t, err)
	snap = waitFor(t, svc, snap.ID)
	assert.Equal(t, "fast", snap.Data.(*models.Page).Items[0].Name)

	close(release)
	time.Sleep(20 * time.Millisecond)

	snap, err = svc.Get(context.Background(), snap.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "fast", snap.Data.(*models.Page).Items[0].Name)
}

func TestService_LoadError(t *testing.T) {
	boom := errors.New("boom")
	configs := &fakeConfigs{list: func(context.Context, string, int, int) (*models.Page, error) {
		return nil, boom
	}}
	svc := newService(configs)
	defer svc.Close()

	snap, err := svc.Create(Params{Kind: KindLogConfigs})
	require.NoError(t, err)

	snap = waitFor(t, svc, snap.ID)
	require.NotNil(t, snap.DataError)
	assert.Equal(t, "failed to load logconfigs: boom", *snap.DataError)
	assert.Nil(t, snap.Data)
}

func TestService_DeleteCancelsLoad(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cancelled := make(chan struct{})
	configs := &fakeConfigs{list: func(ctx context.Context, _ string, _, _ int) (*models.Page, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	}}
	svc := newService(configs)

	snap, err := svc.Create(Params{Kind: KindLogConfigs})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(snap.ID))

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("load was not cancelled")
	}

	_, err = svc.Get(context.Background(), snap.ID, false)
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.ErrorIs(t, svc.Delete(snap.ID), ErrViewNotFound)
}

func TestService_GetWaitIsBounded(t *testing.T) {
	release := make(chan struct{})
	configs := &fakeConfigs{list: func(context.Context, string, int, int) (*models.Page, error) {
		<-release
		return pageOf("", 1), nil
	}}
	svc := NewService(configs, nil, Options{Wait: 20 * time.Millisecond}, zap.NewNop())
	defer func() {
		close(release)
		svc.Close()
	}()

	snap, err := svc.Create(Params{Kind: KindLogConfigs})
	require.NoError(t, err)

	snap, err = svc.Get(context.Background(), snap.ID, true)
	require.NoError(t, err)
	assert.True(t, snap.IsLoadingData)
}

func TestService_Sweep(t *testing.T) {
	svc := newService(echoConfigs())
	defer svc.Close()

	var mu sync.Mutex
	now := time.Now()
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	idle, err := svc.Create(Params{Kind: KindLogConfigs})
	require.NoError(t, err)
	active, err := svc.Create(Params{Kind: KindLogConfigs})
	require.NoError(t, err)

	advance(45 * time.Second)
	_, err = svc.Get(context.Background(), active.ID, false)
	require.NoError(t, err)
	advance(30 * time.Second)

	assert.Equal(t, 1, svc.Sweep())
	assert.Equal(t, 1, svc.Count())

	_, err = svc.Get(context.Background(), idle.ID, false)
	assert.ErrorIs(t, err, ErrViewNotFound)
	_, err = svc.Get(context.Background(), active.ID, false)
	assert.NoError(t, err)
}

func TestService_RunClosesViewsOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	svc := newService(echoConfigs())
	_, err := svc.Create(Params{Kind: KindLogConfigs})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()
	<-done
	assert.Equal(t, 0, svc.Count())
}

func TestService_CreateErrors(t *testing.T) {
	svc := NewService(nil, nil, Options{}, zap.NewNop())

	_, err := svc.Create(Params{Kind: "dashboards"})
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = svc.Create(Params{Kind: KindSamples})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestService_SamplesView(t *testing.T) {
	list := fakeSamples{{Key: "samples/a.log"}, {Key: "samples/b.log"}, {Key: "samples/c.log"}}
	svc := NewService(nil, list, Options{}, zap.NewNop())
	defer svc.Close()

	snap, err := svc.Create(Params{Kind: KindSamples, Page: 2, Size: 2})
	require.NoError(t, err)

	snap = waitFor(t, svc, snap.ID)
	page := snap.Data.(*SamplePage)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "samples/c.log", page.Items[0].Key)
}

func TestPaginate(t *testing.T) {
	items := make([]samples.Sample, 5)

	assert.Len(t, paginate(items, 1, 2).Items, 2)
	assert.Len(t, paginate(items, 3, 2).Items, 1)
	assert.Len(t, paginate(items, 9, 2).Items, 0)
	assert.Equal(t, 20, paginate(items, 0, 0).Size)
}
