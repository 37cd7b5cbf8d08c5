// Package utils provides loose type conversion helpers for query strings and
// decoded JSON values.
package utils
