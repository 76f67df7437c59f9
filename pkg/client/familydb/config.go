package familydb

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type Config struct {
	BaseURL   string `envconfig:"FAMILYDB_BASE_URL"`
	APISecret string `envconfig:"FAMILYDB_API_SECRET"`
}

func (c *Config) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.APISecret, validation.Required),
	)
}
