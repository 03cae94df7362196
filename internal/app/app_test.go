package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/print-connect-backend/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckWorker(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name: "redis and postgres",
			cfg: config.Config{
				Store: config.StoreConfig{Backend: config.StorePostgres},
				Queue: config.QueueConfig{RedisURL: "redis://localhost:6379"},
			},
		},
		{
			name:    "no redis",
			cfg:     config.Config{Store: config.StoreConfig{Backend: config.StorePostgres}},
			wantErr: "REDIS_URL",
		},
		{
			name: "memory store",
			cfg: config.Config{
				Store: config.StoreConfig{Backend: config.StoreMemory},
				Queue: config.QueueConfig{RedisURL: "redis://localhost:6379"},
			},
			wantErr: "STORE_BACKEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckWorker(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenBackend_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreMemory}}

	backend, err := OpenBackend(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer backend.Close()

	assert.Nil(t, backend.DB)

	providers, err := backend.Repos.Providers.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, providers, 4)
}

func TestOpenBackend_FixturesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	data := []byte(`
providers:
  - id: 7
    name: Solo Printer
    distance: 1
    rating: 4
    materials: [PLA]
users: []
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreMemory, FixturesPath: path}}
	backend, err := OpenBackend(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	provider, err := backend.Repos.Providers.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Solo Printer", provider.Name)
	assert.Empty(t, provider.Orders)
}

func TestOpenBackend_MissingFixtures(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.StoreMemory, FixturesPath: "/does/not/exist.yaml"}}

	_, err := OpenBackend(context.Background(), cfg, testLogger())
	assert.Error(t, err)
}

func TestOpenQueue_InProcess(t *testing.T) {
	client, inProcess, err := OpenQueue(&config.Config{}, testLogger())
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, inProcess)
	assert.NoError(t, client.Health(context.Background()))
}
