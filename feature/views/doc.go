// Package views keeps server-side console views.
//
// A view is a list screen of the console (log configurations or sample logs)
// whose data is loaded through an asyncdata.Controller. The filter and page of
// the view are the controller's dependencies: changing either starts a new
// load, and a result that arrives after a newer load was started is dropped.
// Clients poll GET /views/:id, optionally with wait=true, to observe
// isLoadingData, data, lastData and dataError.
//
// Views not read for the configured idle TTL are closed by Service.Run.
// Closing a view detaches its controller and cancels the in-flight load.
//
// # HTTP Endpoints
//
//   - POST   /views            : open ({"kind", "filter", "page", "size"})
//   - GET    /views/:id        : state (?wait=true)
//   - PATCH  /views/:id        : change filter/page
//   - POST   /views/:id/reload : reload with unchanged filter/page
//   - DELETE /views/:id        : close
package views
