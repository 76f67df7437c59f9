package cache

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Capacity   int           `envconfig:"CACHE_CAPACITY" default:"1024"`
	DefaultTTL time.Duration `envconfig:"CACHE_DEFAULT_TTL" default:"1m"`
}

func (c Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.DefaultTTL, validation.Required, validation.Min(time.Second)),
	)
}
