package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)

	assert.True(t, c.Env.Overwrite)
	assert.Equal(t, 8046.72, c.SurfaceWater.Distance.Min)
	assert.Equal(t, 80467.2, c.SurfaceWater.Distance.Max)
	assert.Equal(t, 0.55, c.KFactor.Max)
	assert.Equal(t, 8.0, c.Mibi.Min)
	assert.Equal(t, 24.0, c.Mibi.Max)
}

func TestReadOrCreate_ReadsExisting(t *testing.T) {
	dir := t.TempDir()

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	c.SurfaceWater.Workers = 9
	require.NoError(t, Save(dir, c))

	got, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, 9, got.SurfaceWater.Workers)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestReadOrCreate_InvalidWindow(t *testing.T) {
	dir := t.TempDir()

	bad := "env:\n  overwrite: true\nsurface_water:\n  distance: {min: 10, max: 5}\n  density: {min: 1, max: 2}\n  workers: 2\nkfactor: {min: 0, max: 1}\nmibi: {min: 8, max: 24}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(bad), 0600))

	_, err := ReadOrCreate(dir)
	assert.Error(t, err)
}

func TestSave_NilConfig(t *testing.T) {
	assert.Error(t, Save(t.TempDir(), nil))
	assert.Error(t, Save("", getDefaultConfig()))
}

func TestValidate_Workers(t *testing.T) {
	c := getDefaultConfig()
	c.SurfaceWater.Workers = 0
	assert.Error(t, c.Validate())
}
