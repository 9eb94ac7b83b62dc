package jobqueue

import "time"

// Default configuration values.
const (
	DefaultWorkers        = 3
	DefaultMaxAttempts    = 3
	DefaultBackoff        = time.Second
	DefaultPollInterval   = 250 * time.Millisecond
	DefaultRetentionCount = 100
)

// Config holds queue configuration.
type Config struct {
	// Workers is the number of concurrent job handlers.
	Workers int `mapstructure:"workers" json:"workers"`

	// MaxAttempts is the default delivery attempt cap per job.
	MaxAttempts int `mapstructure:"max_attempts" json:"max_attempts"`

	// Backoff is the base requeue delay; subsequent waits double.
	Backoff time.Duration `mapstructure:"backoff" json:"backoff"`

	// PollInterval bounds how long an idle worker sleeps between checks.
	PollInterval time.Duration `mapstructure:"poll_interval" json:"poll_interval"`

	// RetentionCount is how many terminal jobs are kept before pruning.
	RetentionCount int `mapstructure:"retention_count" json:"retention_count"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.RetentionCount <= 0 {
		c.RetentionCount = DefaultRetentionCount
	}
}
