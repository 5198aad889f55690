package config

import (
	"fmt"
	"time"

	"github.com/kbukum/apikit/client"
	"github.com/kbukum/apikit/logger"
)

// RetryConfig is the file representation of one retry policy, keyed by
// error kind in File.Retry.
type RetryConfig struct {
	Wait          time.Duration `yaml:"wait" mapstructure:"wait"`
	MaxAttempts   int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffFactor float64       `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	MaxWait       time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	Jitter        float64       `yaml:"jitter" mapstructure:"jitter"`
}

// Policy converts the file representation into a client.RetryPolicy.
func (r RetryConfig) Policy() client.RetryPolicy {
	return client.RetryPolicy{
		Wait:          r.Wait,
		MaxAttempts:   r.MaxAttempts,
		BackoffFactor: r.BackoffFactor,
		MaxWait:       r.MaxWait,
		Jitter:        r.Jitter,
	}
}

// File is the full configuration schema of one API client: the client's
// endpoint settings, its logging configuration, and retry policies keyed
// by error kind.
//
// Example config.yml:
//
//	client:
//	  base_url: "https://api.example.com"
//	  timeout: 10s
//	logging:
//	  level: "info"
//	  format: "json"
//	retry:
//	  rate_limit:
//	    wait: 500ms
//	    max_attempts: 3
//	    backoff_factor: 2.0
type File struct {
	Client  client.Config          `yaml:"client" mapstructure:"client"`
	Logging logger.Config          `yaml:"logging" mapstructure:"logging"`
	Retry   map[string]RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults applies default values to all sections.
func (f *File) ApplyDefaults() {
	f.Client.ApplyDefaults()
	f.Logging.ApplyDefaults()
}

// Validate validates all sections.
func (f *File) Validate() error {
	if err := f.Client.Validate(); err != nil {
		return err
	}
	if err := f.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	for kind, rc := range f.Retry {
		if rc.MaxAttempts < 1 {
			return fmt.Errorf("config.retry.%s: max_attempts must be at least 1", kind)
		}
		if rc.Wait < 0 {
			return fmt.Errorf("config.retry.%s: negative wait", kind)
		}
	}
	return nil
}

// ApplyRetry registers every configured retry policy on a definition
// builder. A kind registered both in code and in the file surfaces as a
// duplicate-registration error at Build.
func (f *File) ApplyRetry(b *client.Builder) *client.Builder {
	for kind, rc := range f.Retry {
		b.Retry(client.ErrorKind(kind), rc.Policy())
	}
	return b
}
