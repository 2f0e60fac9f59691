// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package query

import "github.com/joeshaw/envdecode"

// Config holds the compiler defaults: page size, the hard limit a client can
// never exceed, and the default sort.
type Config struct {
	DefaultLimit int    `env:"QUERY_DEFAULT_LIMIT,default=100" json:"default_limit"`
	MaxLimit     int    `env:"QUERY_MAX_LIMIT,default=100" json:"max_limit"`
	SortField    string `env:"QUERY_SORT_FIELD,default=created" json:"sort_field"`
	SortOrder    string `env:"QUERY_SORT_ORDER,default=desc" json:"sort_order"`
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 100,
		MaxLimit:     100,
		SortField:    "created",
		SortOrder:    OrderDescending,
	}
}

// ConfigFromEnv reads the configuration from the environment, falling back to
// the stock defaults for unset variables.
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := envdecode.Decode(&c); err != nil {
		return DefaultConfig(), err
	}
	return c, nil
}

// merged returns the configuration with zero fields filled from the stock
// defaults, so partial declarative configurations stay valid.
func (c Config) merged() Config {
	defaults := DefaultConfig()
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = defaults.DefaultLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = defaults.MaxLimit
	}
	if c.SortField == "" {
		c.SortField = defaults.SortField
	}
	if c.SortOrder != OrderAscending && c.SortOrder != OrderDescending {
		c.SortOrder = defaults.SortOrder
	}
	return c
}
