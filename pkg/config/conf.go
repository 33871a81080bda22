// Package config holds the immutable run configuration: the environment
// settings the original tooling kept as ambient process state (overwrite
// policy, scratch workspace, snap raster) plus the calibration windows for
// each scoring pipeline.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	fileMode       = 0600
)

// Env is the processing environment: whether existing outputs may be
// overwritten, where intermediates go, and the grid every output aligns to.
type Env struct {
	Overwrite  bool   `yaml:"overwrite"`
	ScratchDir string `yaml:"scratch_dir"`
	SnapRaster string `yaml:"snap_raster"`
}

// Window is a [Min, Max] rescale window.
type Window struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// SurfaceWater calibrates the surface-water protection score: the distance
// decay window around each source and the density window the population
// weighted sum is rescaled through.
type SurfaceWater struct {
	Distance Window `yaml:"distance"`
	Density  Window `yaml:"density"`
	Workers  int    `yaml:"workers"`
}

// Config is the full run configuration.
type Config struct {
	Env          Env          `yaml:"env"`
	SurfaceWater SurfaceWater `yaml:"surface_water"`
	KFactor      Window       `yaml:"kfactor"`
	Mibi         Window       `yaml:"mibi"`
}

func getDefaultConfig() *Config {
	return &Config{
		Env: Env{
			Overwrite:  true,
			ScratchDir: "scratch",
		},
		SurfaceWater: SurfaceWater{
			// 8046.72 m is 5 miles, the Zone 1 protection distance around
			// surface water sources; the window reaches 10x that.
			Distance: Window{Min: 8046.72, Max: 80467.2},
			Density:  Window{Min: 1000, Max: 100000},
			Workers:  4,
		},
		KFactor: Window{Min: 0, Max: 0.55},
		// Theoretical mIBI range is 6-30; the observed range drives scoring.
		Mibi: Window{Min: 8, Max: 24},
	}
}

// Save writes the config to the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads the run config from a directory, writing the defaults
// first when no config file exists yet.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, getDefaultConfig()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file: %s", path)
	}
	return &c, nil
}

// Validate checks every calibration window up front so a bad file fails the
// run before any output is touched.
func (c *Config) Validate() error {
	for _, w := range []struct {
		name string
		win  Window
	}{
		{"surface_water.distance", c.SurfaceWater.Distance},
		{"surface_water.density", c.SurfaceWater.Density},
		{"kfactor", c.KFactor},
		{"mibi", c.Mibi},
	} {
		if w.win.Min >= w.win.Max {
			return errors.Errorf("window %s must satisfy min < max, got min=%v max=%v",
				w.name, w.win.Min, w.win.Max)
		}
	}
	if c.SurfaceWater.Workers < 1 {
		return errors.Errorf("surface_water.workers must be at least 1, got %d", c.SurfaceWater.Workers)
	}
	return nil
}
