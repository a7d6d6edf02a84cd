package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempFile(t *testing.T, data []byte) *os.File {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "config-*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	_, err = f.Write(data)
	require.NoError(t, err)

	return f
}

func TestLoad(t *testing.T) {
	t.Run("non-existent config file", func(t *testing.T) {
		cfg, err := Load("invalid/path/to/config.yml")

		assert.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Nil(t, cfg)
	})

	t.Run("invalid config file", func(t *testing.T) {
		data := `http_server:
  port: not a number
storage:
  backend: redis`

		f := createTempFile(t, []byte(data))
		cfg, err := Load(f.Name())

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("defaults applied", func(t *testing.T) {
		f := createTempFile(t, []byte(`env: dev`))
		cfg, err := Load(f.Name())

		require.NoError(t, err)
		assert.Equal(t, EnvDev, cfg.Env)
		assert.Equal(t, 6, cfg.ShortCodeLength)
		assert.Equal(t, ":8080", cfg.HTTPServer.Addr())
		assert.Equal(t, 5*time.Second, cfg.HTTPServer.ReadTimeout)
		assert.Equal(t, BackendRedis, cfg.Storage.Backend)
		assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
		assert.Equal(t, "shortkv", cfg.Storage.DynamoDB.Table)
	})

	t.Run("success", func(t *testing.T) {
		data := `env: prod
base_url: https://sho.rt
short_code_length: 8
http_server:
  port: 9090
  cert_file: ./crts/example.pem
  key_file: ./crts/example-key.pem
storage:
  backend: dynamodb
  dynamodb:
    region: eu-west-1
    table: links
    endpoint: http://localhost:8000`

		f := createTempFile(t, []byte(data))
		cfg, err := Load(f.Name())

		require.NoError(t, err)
		assert.Equal(t, EnvProd, cfg.Env)
		assert.Equal(t, "https://sho.rt", cfg.BaseURL)
		assert.Equal(t, 8, cfg.ShortCodeLength)
		assert.Equal(t, ":9090", cfg.HTTPServer.Addr())
		assert.Equal(t, BackendDynamoDB, cfg.Storage.Backend)
		assert.Equal(t, "eu-west-1", cfg.Storage.DynamoDB.Region)
		assert.Equal(t, "links", cfg.Storage.DynamoDB.Table)
		assert.Equal(t, "http://localhost:8000", cfg.Storage.DynamoDB.Endpoint)
	})
}
