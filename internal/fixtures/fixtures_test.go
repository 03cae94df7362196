package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/print-connect-backend/internal/models"
)

func TestLoad(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	require.Len(t, ds.Providers, 4)
	require.Len(t, ds.Users, 2)

	marco := ds.Providers[0]
	assert.Equal(t, "Marco Rossi", marco.Name)
	assert.False(t, marco.IsBusiness)
	assert.Equal(t, []models.Material{models.MaterialPLA, models.MaterialPETG}, marco.Materials)
	require.Len(t, marco.Orders, 5)
	for _, o := range marco.Orders {
		assert.Equal(t, int64(1), o.ProviderID)
	}

	// idea-based order has no file
	assert.Nil(t, marco.Orders[4].FileName)
	require.NotNil(t, marco.Orders[4].IdeaDescription)
	assert.True(t, marco.Orders[0].IsFileBased())

	for _, p := range ds.Providers[1:] {
		assert.NotNil(t, p.Orders)
		assert.Empty(t, p.Orders)
	}

	assert.True(t, ds.Users[0].IsProvider())
	assert.False(t, ds.Users[1].IsProvider())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "providers: [\n"},
		{"duplicate provider", "providers:\n  - id: 1\n  - id: 1\n"},
		{"bad material", "providers:\n  - id: 1\n    materials: [Wood]\n"},
		{"bad status", "providers:\n  - id: 1\n    orders:\n      - id: 1\n        file_name: a.stl\n        status: lost\n"},
		{"null provider", "providers:\n  - ~\n"},
		{"null order", "providers:\n  - id: 1\n    orders:\n      - ~\n"},
		{"null user", "users:\n  - ~\n"},
		{"order with file and idea", "providers:\n  - id: 1\n    orders:\n      - id: 1\n        file_name: a.stl\n        idea_description: a cat\n        status: pending\n"},
		{"order with neither file nor idea", "providers:\n  - id: 1\n    orders:\n      - id: 1\n        status: pending\n"},
		{"bad user type", "users:\n  - id: 1\n    type: admin\n"},
		{"dangling provider link", "users:\n  - id: 1\n    type: provider\n    provider_id: 9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	ds, err := LoadFile("")
	require.NoError(t, err)
	assert.Len(t, ds.Providers, 4)

	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  - id: 7\n    name: Solo\n"), 0o600))

	ds, err = LoadFile(path)
	require.NoError(t, err)
	require.Len(t, ds.Providers, 1)
	assert.Equal(t, "Solo", ds.Providers[0].Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
