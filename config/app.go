package config

import (
	"fmt"

	"github.com/skillsenselab/filevault/database"
	"github.com/skillsenselab/filevault/gateway"
	"github.com/skillsenselab/filevault/jobqueue"
	"github.com/skillsenselab/filevault/logger"
	"github.com/skillsenselab/filevault/objectstore"
	"github.com/skillsenselab/filevault/processing"
	"github.com/skillsenselab/filevault/processing/magick"
	"github.com/skillsenselab/filevault/processing/pdfcli"
	"github.com/skillsenselab/filevault/validation"
)

// AppConfig aggregates every component's configuration. It is validated
// once at load time; components receive their own sections already
// defaulted.
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name" json:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" json:"environment" validate:"oneof=development staging production"`
	Debug       bool   `yaml:"debug" mapstructure:"debug" json:"debug"`

	Logging     logger.Config      `yaml:"logging" mapstructure:"logging" json:"logging"`
	Database    database.Config    `yaml:"database" mapstructure:"database" json:"database"`
	ObjectStore objectstore.Config `yaml:"object_store" mapstructure:"object_store" json:"object_store"`
	Gateway     gateway.Config     `yaml:"gateway" mapstructure:"gateway" json:"gateway"`
	Queue       jobqueue.Config    `yaml:"queue" mapstructure:"queue" json:"queue"`
	Processing  processing.Config  `yaml:"processing" mapstructure:"processing" json:"processing"`
	PDF         pdfcli.Config      `yaml:"pdf" mapstructure:"pdf" json:"pdf"`
	Image       magick.Config      `yaml:"image" mapstructure:"image" json:"image"`
}

// ApplyDefaults fills in every section's defaults.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "filevault"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.ObjectStore.ApplyDefaults()
	c.Gateway.ApplyDefaults()
	c.Queue.ApplyDefaults()
	c.Processing.ApplyDefaults()
	c.PDF.ApplyDefaults()
	c.Image.ApplyDefaults()
}

// Validate checks the whole configuration. Struct tags cover the app
// fields; sections with their own rules validate themselves.
func (c *AppConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("config.database: %w", err)
	}
	if err := c.ObjectStore.Validate(); err != nil {
		return fmt.Errorf("config.object_store: %w", err)
	}
	if err := c.Gateway.Validate(); err != nil {
		return fmt.Errorf("config.gateway: %w", err)
	}
	return nil
}

// Load reads configuration from config.yml and the environment, applies
// defaults and validates the result.
func Load(opts ...LoaderOption) (*AppConfig, error) {
	var cfg AppConfig
	if err := LoadConfig("filevault", &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
