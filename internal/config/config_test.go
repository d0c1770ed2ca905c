package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Engine.Workers)
	assert.Equal(t, 25.0, cfg.Engine.DriftThreshold)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, "data/records.gob", cfg.Cache.Path)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENGINE_WORKERS", "8")
	t.Setenv("ENGINE_DRIFT_THRESHOLD", "100.5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_ADDR", ":9090")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, 100.5, cfg.Engine.DriftThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestFieldNames(t *testing.T) {
	c := EngineConfig{Fields: "subaddress, zip ,coordinates"}
	assert.Equal(t, []string{"subaddress", "zip", "coordinates"}, c.FieldNames())

	assert.Empty(t, EngineConfig{Fields: " , "}.FieldNames())
}
