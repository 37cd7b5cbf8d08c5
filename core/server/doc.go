// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the settings it needs: listen port, API key and the lifetimes of
// server-side console views.
package server
