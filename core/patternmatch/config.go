package patternmatch

import "time"

// Config holds configuration for the pattern matcher.
type Config struct {
	// TimeoutMs bounds a single match in milliseconds.
	TimeoutMs int `mapstructure:"timeout_ms" default:"1000"`
	// Workers is the number of worker goroutines.
	Workers int `mapstructure:"workers" default:"2"`
	// QueueSize is the number of requests that can wait for a worker.
	QueueSize int `mapstructure:"queue_size" default:"64"`
}

// Timeout returns the match timeout, falling back to one second.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
