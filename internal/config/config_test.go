package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sadopc/okrboard/internal/objective"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	spec, err := cfg.Spec()
	require.NoError(t, err)
	assert.Equal(t, objective.DefaultSpec(), spec)
}

func TestLoadOverridesAndResolvesSeed(t *testing.T) {
	path := writeConfig(t, "seed: objectives.yaml\nwatch: true\nsort: dueDate\norder: desc\ndebug: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "objectives.yaml"), cfg.Seed)
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "okrboard-debug.log", cfg.LogFile)

	spec, err := cfg.Spec()
	require.NoError(t, err)
	assert.Equal(t, objective.SortDueDate, spec.SortKey)
	assert.Equal(t, objective.Descending, spec.SortDirection)
}

func TestLoadKeepsAbsoluteSeed(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "seed.yaml")
	cfg, err := Load(writeConfig(t, "seed: "+abs+"\n"))
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Seed)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "sort: owner\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "order: sideways\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "watch: [\n"))
	assert.Error(t, err)
}

func TestDefaultPathHonoursEnv(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", p)
}
