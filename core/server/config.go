package server

import "time"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ViewIdleSeconds is how long a console view may go unread before it is detached.
	ViewIdleSeconds int `mapstructure:"view_idle_seconds" default:"300"`
	// ViewWaitSeconds bounds how long a view read with ?wait=true blocks.
	ViewWaitSeconds int `mapstructure:"view_wait_seconds" default:"10"`
}

// ViewIdleTTL returns the idle lifetime of console views.
func (c Config) ViewIdleTTL() time.Duration {
	if c.ViewIdleSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.ViewIdleSeconds) * time.Second
}

// ViewWait returns the maximum blocking time of a view read.
func (c Config) ViewWait() time.Duration {
	if c.ViewWaitSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ViewWaitSeconds) * time.Second
}
