// Package asyncdata drives one asynchronous data-fetch operation bound to a
// dependency set.
//
// A Controller receives a Generator that returns a pending-result handle
// (a *Future) or nil when there is nothing to fetch. Each time Initialize is
// called with a dependency set that differs from the previous one, or after
// Reload, the generator is invoked and the returned Future becomes the current
// request. The controller exposes loading state, result, previous result and
// error through State.
//
// # Stale Results
//
// Every accepted request captures the controller's generation counter. When the
// request settles, its outcome is committed only if the captured generation
// still matches and the controller is still attached. A newer request or a
// Detach makes older results no-ops (last requester wins).
//
// # Lifetime
//
//	ctrl := asyncdata.New[[]Item](logger, asyncdata.Options[[]Item]{})
//	ctrl.Attach()
//	defer ctrl.Detach()
//
//	ctrl.Initialize(func() *asyncdata.Future[[]Item] {
//	    return asyncdata.Go(ctx, func(ctx context.Context) ([]Item, error) {
//	        return repo.List(ctx, filter)
//	    })
//	}, filter, page)
//
//	state := ctrl.State()
package asyncdata
