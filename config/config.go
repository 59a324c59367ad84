// Package config holds the settings of a balanced training run.
package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/Jille/rebalance/dataview"
	"github.com/Jille/rebalance/sampler"
)

type Config struct {
	Labels        string `yaml:"labels" arg:"--labels" help:"CSV file with id,label columns"`
	Mode          string `yaml:"mode" arg:"--mode" help:"down, over, same or a positive number of draws per epoch"`
	Regenerate    bool   `yaml:"regenerate" arg:"--regenerate" help:"redraw the index sequence on every lookup"`
	Epochs        int    `yaml:"epochs" arg:"--epochs"`
	BatchSize     int    `yaml:"batch_size" arg:"--batch-size"`
	Seed          uint64 `yaml:"seed" arg:"--seed"`
	Deterministic bool   `yaml:"deterministic" arg:"--deterministic"`
	Prefix        string `yaml:"prefix" arg:"--prefix"`
	Format        string `yaml:"format" arg:"--format" help:"fmt verb for reported values"`
	MetricsAddr   string `yaml:"metrics_addr" arg:"--metrics-addr" help:"serve prometheus metrics on this address"`
}

func Default() Config {
	return Config{
		Mode:          "same",
		Epochs:        1,
		BatchSize:     32,
		Seed:          42,
		Deterministic: true,
		Format:        "%.4f",
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	c := Default()
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config")
	}
	if err := yaml.UnmarshalStrict(buf, &c); err != nil {
		return c, errors.Wrapf(err, "parse config %s", path)
	}
	return c, nil
}

// SamplingMode parses Mode.
func (c Config) SamplingMode() (sampler.Mode, error) {
	return sampler.ParseMode(c.Mode)
}

func (c Config) ViewMode() dataview.Mode {
	if c.Regenerate {
		return dataview.Regenerate
	}
	return dataview.Snapshot
}

func (c Config) Validate() error {
	if c.Labels == "" {
		return errors.New("labels file is required")
	}
	if _, err := c.SamplingMode(); err != nil {
		return err
	}
	if c.Epochs <= 0 {
		return errors.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return errors.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}
