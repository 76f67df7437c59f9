package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	Level       string `yaml:"level" envconfig:"LOGGER_LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"LOGGER_FORMAT" default:"json"`
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"familyhub"`
	WithSource  bool   `yaml:"with_source" envconfig:"LOGGER_WITH_SOURCE" default:"false"`
}

func (c Config) Validate(_ context.Context) error {
	if _, ok := levels[strings.ToLower(c.Level)]; !ok {
		return fmt.Errorf("invalid log level: %s", c.Level)
	}

	switch strings.ToLower(c.Format) {
	case "json", "text":
	default:
		return errors.New("invalid logger format")
	}

	return nil
}

// ValidateWithContext lets the root config validate this section the same
// way it validates the others.
func (c *Config) ValidateWithContext(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Validate(ctx)
}
