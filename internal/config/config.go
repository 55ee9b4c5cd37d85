package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read from the working directory when no path is given.
const DefaultPath = "radarnet.yaml"

// Config holds CLI defaults. Flags given on the command line win.
type Config struct {
	Format      string `yaml:"format" validate:"oneof=text json"`
	InputFormat string `yaml:"input_format" validate:"oneof=auto json yaml"`
	FailOn      string `yaml:"fail_on" validate:"omitempty,oneof=low medium high critical"`
	SummaryOnly bool   `yaml:"summary_only"`
	Color       string `yaml:"color" validate:"oneof=auto always never"`
	OutDir      string `yaml:"out_dir"`
	MetricsFile string `yaml:"metrics_file"`
	Concurrency int    `yaml:"concurrency" validate:"gte=0"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Format:      "text",
		InputFormat: "auto",
		Color:       "auto",
	}
}

var validate = validator.New()

// Load reads the config at path over the defaults. When explicit is false a
// missing file is not an error and the defaults are returned.
func Load(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read the config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
