package patternmatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startMatcher(t *testing.T, cfg Config) *Matcher {
	t.Helper()
	m := New(cfg, zap.NewNop())
	m.Start(context.Background())
	t.Cleanup(m.Close)
	return m
}

func TestMatcher_Match(t *testing.T) {
	m := startMatcher(t, Config{TimeoutMs: 500, Workers: 2, QueueSize: 4})
	ctx := context.Background()

	t.Run("First match with groups", func(t *testing.T) {
		resp, err := m.Match(ctx, Request{Pattern: "a(b)c", Text: "xabcx"})
		require.NoError(t, err)
		assert.Empty(t, resp.Error)
		require.NotNil(t, resp.Result)
		assert.Equal(t, []string{"abc", "b"}, resp.Result.Groups)
		assert.Equal(t, 1, resp.Result.Index)
		assert.Equal(t, "xabcx", resp.Result.Input)
	})

	t.Run("Compile error", func(t *testing.T) {
		resp, err := m.Match(ctx, Request{Pattern: "(", Text: "x"})
		require.NoError(t, err)
		assert.Nil(t, resp.Result)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("No match", func(t *testing.T) {
		resp, err := m.Match(ctx, Request{Pattern: "z+", Text: "abc"})
		require.NoError(t, err)
		assert.Nil(t, resp.Result)
		assert.Empty(t, resp.Error)
	})

	t.Run("Named groups", func(t *testing.T) {
		resp, err := m.Match(ctx, Request{
			Pattern: `(?<level>[A-Z]+) (?<msg>.*)`,
			Text:    "ERROR disk full",
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Result)
		assert.Equal(t, "ERROR", resp.Result.Named["level"])
		assert.Equal(t, "disk full", resp.Result.Named["msg"])
	})

	t.Run("Unmatched optional group", func(t *testing.T) {
		resp, err := m.Match(ctx, Request{Pattern: `a(x)?b`, Text: "ab"})
		require.NoError(t, err)
		require.NotNil(t, resp.Result)
		assert.Equal(t, []string{"ab", ""}, resp.Result.Groups)
	})

	t.Run("Index in UTF-16 code units", func(t *testing.T) {
		resp, err := m.Match(ctx, Request{Pattern: "b", Text: "\U0001F600éab"})
		require.NoError(t, err)
		require.NotNil(t, resp.Result)
		assert.Equal(t, 4, resp.Result.Index)
	})

	t.Run("Backreference", func(t *testing.T) {
		resp, err := m.Match(ctx, Request{Pattern: `(\w)\1`, Text: "abccd"})
		require.NoError(t, err)
		require.NotNil(t, resp.Result)
		assert.Equal(t, 2, resp.Result.Index)
	})
}

func TestMatcher_Timeout(t *testing.T) {
	m := startMatcher(t, Config{TimeoutMs: 50, Workers: 1})

	start := time.Now()
	resp, err := m.Match(context.Background(), Request{
		Pattern: `^(a+)+$`,
		Text:    "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Error)
	assert.Less(t, time.Since(start), 5*time.Second)

	// The worker is free again afterwards.
	resp, err = m.Match(context.Background(), Request{Pattern: "a", Text: "a"})
	require.NoError(t, err)
	assert.NotNil(t, resp.Result)
}

func TestMatcher_Lifecycle(t *testing.T) {
	m := New(Config{}, zap.NewNop())

	_, err := m.Match(context.Background(), Request{Pattern: "a", Text: "a"})
	assert.ErrorIs(t, err, ErrNotStarted)

	m.Start(context.Background())
	m.Close()
	m.Close()

	_, err = m.Match(context.Background(), Request{Pattern: "a", Text: "a"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMatcher_StartContextDone(t *testing.T) {
	m := New(Config{Workers: 2, QueueSize: 4}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	t.Cleanup(m.Close)
	cancel()

	assert.Eventually(t, func() bool {
		reqCtx, stop := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer stop()
		_, err := m.Match(reqCtx, Request{Pattern: "a", Text: "a"})
		return errors.Is(err, ErrClosed)
	}, time.Second, 10*time.Millisecond)
}

func TestMatcher_ContextCancelled(t *testing.T) {
	m := startMatcher(t, Config{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Match(ctx, Request{Pattern: "a", Text: "a"})
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestResponse_JSON(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{"Error", Response{Error: "bad"}, `{"error":"bad"}`},
		{"No match", Response{}, `{"result":null}`},
		{"Match", Response{Result: &Match{Groups: []string{"a"}, Index: 0, Input: "a"}}, `{"result":{"groups":["a"],"index":0,"input":"a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}

	var decoded Response
	require.NoError(t, json.Unmarshal([]byte(`{"error":"bad"}`), &decoded))
	assert.Equal(t, "bad", decoded.Error)
}
