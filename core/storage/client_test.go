package storage_test

import (
	"context"
	"testing"

	"log-console/core/storage"
	"log-console/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "logs",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestReadObject(t *testing.T) {
	ctx := context.Background()

	t.Run("Whole object", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "logs", "samples/a.log", mock.Anything).
			Return(mocks.Object("line1\nline2\n"), nil)

		data, truncated, err := storage.ReadObject(ctx, client, "logs", "samples/a.log", 100)
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.Equal(t, "line1\nline2\n", string(data))
	})

	t.Run("Truncated", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "logs", "samples/a.log", mock.Anything).
			Return(mocks.Object("0123456789"), nil)

		data, truncated, err := storage.ReadObject(ctx, client, "logs", "samples/a.log", 4)
		require.NoError(t, err)
		assert.True(t, truncated)
		assert.Equal(t, "0123", string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "logs", "samples/none.log", mock.Anything).
			Return(nil, assert.AnError)

		_, _, err := storage.ReadObject(ctx, client, "logs", "samples/none.log", 4)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
