package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	s, err := Load(fs, "/home/user/.illuminator/settings.yaml")
	require.NoError(t, err)

	assert.Equal(t, "claude-cli", s.Backend)
	assert.Equal(t, "local", s.Archive.Type)
	assert.Equal(t, 10*time.Minute, s.StepTimeout())
	assert.Equal(t, 10*time.Minute, s.LockTTL())
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoad_FromYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	yaml := `
database_path: /data/illuminator.db
simulation_id: sim-7
backend: gemini
model: gemini-1.5-pro
step_timeout_sec: 120
archive:
  type: s3
  bucket: my-bucket
  prefix: prod
  region: us-west-2
log_level: debug
`
	require.NoError(t, afero.WriteFile(fs, "/settings.yaml", []byte(yaml), 0644))

	s, err := Load(fs, "/settings.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/data/illuminator.db", s.DatabasePath)
	assert.Equal(t, "sim-7", s.SimulationID)
	assert.Equal(t, "gemini", s.Backend)
	assert.Equal(t, 2*time.Minute, s.StepTimeout())
	assert.Equal(t, "s3", s.Archive.Type)
	assert.Equal(t, "my-bucket", s.Archive.Bucket)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/settings.yaml", []byte("backend: gemini\n"), 0644))

	t.Setenv("ILLUMINATOR_BACKEND", "mock")
	t.Setenv("ILLUMINATOR_DB", "/tmp/test.db")

	s, err := Load(fs, "/settings.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mock", s.Backend)
	assert.Equal(t, "/tmp/test.db", s.DatabasePath)
}

func TestLoad_InvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/settings.yaml", []byte("backend: [unclosed"), 0644))

	_, err := Load(fs, "/settings.yaml")
	assert.Error(t, err)
}
