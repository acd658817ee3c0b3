package config

import (
	"fmt"

	"github.com/kbukum/flatkit/errors"
	"github.com/kbukum/flatkit/logger"
	"github.com/kbukum/flatkit/observability"
	"github.com/kbukum/flatkit/validation"
)

// Pull modes understood by the flatten CLI.
const (
	ModeForward    = "forward"
	ModeBackward   = "backward"
	ModeInterleave = "interleave"
	ModeScript     = "script"
)

// FlattenConfig configures how a document is traversed.
type FlattenConfig struct {
	Mode      string `yaml:"mode" mapstructure:"mode" json:"mode" validate:"required,oneof=forward backward interleave script"`
	Script    string `yaml:"script" mapstructure:"script" json:"script" validate:"required_if=Mode script,max=4096"`
	ShowEmpty bool   `yaml:"show_empty" mapstructure:"show_empty" json:"show_empty"`
}

// Config is the configuration of the flatten CLI.
type Config struct {
	BaseConfig `yaml:",inline" mapstructure:",squash"`
	Logging    logger.Config `yaml:"logging" mapstructure:"logging"`
	Flatten    FlattenConfig `yaml:"flatten" mapstructure:"flatten"`

	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in unset values.
func (c *Config) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = "flatten"
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	if c.Flatten.Mode == "" {
		c.Flatten.Mode = ModeForward
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidInput("logging", err.Error()).WithCause(err)
	}
	if err := validation.Validate(c.Flatten); err != nil {
		return fmt.Errorf("flatten: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}
