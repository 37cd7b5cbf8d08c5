// Package patterns exposes the pattern matcher over HTTP.
//
// The console uses these endpoints to try a log-parsing regex before saving
// it in a log configuration. Patterns use ECMAScript syntax.
//
// # HTTP Endpoints
//
//   - POST /patterns/match        : {"pattern", "text"} -> {"result"} | {"error"}
//   - POST /patterns/match-sample : {"pattern", "key"} -> per-line summary over a stored sample
package patterns
