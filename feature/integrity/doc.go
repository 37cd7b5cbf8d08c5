// Package integrity provides health checks of the console's storage.
//
// # Checks Provided
//
//   - Structure: the bucket exists and holds the samples/ and exports/ folders.
//   - Samples: sample logs that are empty or larger than the read limit.
//   - Database: the log_configs table has every column of the LogConfig model.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks concurrently.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/samples : Runs samples check.
//   - GET /integrity/database : Runs database schema check.
package integrity
