package config

import (
	"slices"

	"github.com/kbukum/flatkit/errors"
)

// BaseConfig contains the fields every flatkit tool carries.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

var validEnvironments = []string{"development", "staging", "production"}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return errors.MissingField("name")
	}
	if !slices.Contains(validEnvironments, c.Environment) {
		return errors.InvalidInput("environment", "must be one of [development, staging, production] (got: "+c.Environment+")")
	}
	return nil
}
