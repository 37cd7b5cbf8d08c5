// Package samples serves the sample log files kept under samples/ in the
// storage bucket. The console uses them to try log parsing patterns.
//
// # HTTP Endpoints
//
//   - GET    /samples         : list (supports ?prefix=)
//   - GET    /samples/<key>   : read content, capped at storage.max_object_bytes
//   - PUT    /samples/<key>   : upload the raw request body
//   - DELETE /samples/<key>   : delete
package samples
