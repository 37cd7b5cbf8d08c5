// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation protecting every console endpoint.
//   - rayid: assigns a Request ID (RayID) to every incoming request, storing it
//     in the context locals and the X-Ray-ID response header for tracing.
//
// These middleware components are registered globally in the start command.
package middleware
