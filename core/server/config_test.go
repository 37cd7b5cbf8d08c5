package server_test

import (
	"testing"
	"time"

	"log-console/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Durations(t *testing.T) {
	tests := []struct {
		name     string
		cfg      server.Config
		wantIdle time.Duration
		wantWait time.Duration
	}{
		{"Configured", server.Config{ViewIdleSeconds: 60, ViewWaitSeconds: 2}, time.Minute, 2 * time.Second},
		{"Zero falls back", server.Config{}, 5 * time.Minute, 10 * time.Second},
		{"Negative falls back", server.Config{ViewIdleSeconds: -1, ViewWaitSeconds: -1}, 5 * time.Minute, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIdle, tt.cfg.ViewIdleTTL())
			assert.Equal(t, tt.wantWait, tt.cfg.ViewWait())
		})
	}
}
