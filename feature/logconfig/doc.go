// Package logconfig manages log parsing configurations.
//
// A log configuration names a log type (JSON, Nginx, Regex, ...) and, for
// regex-parsed types, the pattern and a sample log line it must match. Patterns
// are checked by the pattern matcher so a pathological regex cannot stall a
// request handler.
//
// # Drafts
//
// Drafts are unsaved edits. Each PATCH re-validates the draft when its log
// type, regex or sample changed; opening a draft never validates, so a new
// form is not flagged before it is edited.
//
// # HTTP Endpoints
//
//   - GET    /logconfigs                    : list (filter, page, size)
//   - POST   /logconfigs                    : create
//   - GET    /logconfigs/:id                : get
//   - PUT    /logconfigs/:id                : update
//   - DELETE /logconfigs/:id                : delete
//   - POST   /logconfigs/drafts             : open draft ({"baseId": ...})
//   - GET    /logconfigs/drafts/:id         : get draft
//   - PATCH  /logconfigs/drafts/:id         : edit draft
//   - POST   /logconfigs/drafts/:id/commit  : save draft
//   - DELETE /logconfigs/drafts/:id         : discard draft
package logconfig
