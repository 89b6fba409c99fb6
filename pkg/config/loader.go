// Package config loads environment-variable configuration into tagged structs.
package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg, which must be a pointer to a
// struct with `env` tags. Every problem is reported at once.
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any) error {
	return LoadWithEnvironment(cfg, nil)
}

// LoadWithEnvironment is Load reading from environ instead of the process
// environment when environ is non-nil.
func LoadWithEnvironment(cfg any, environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// MissingVars lists the required variables err reports as unset or empty,
// sorted by name.
func MissingVars(err error) []string {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return nil
	}

	var names []string
	for _, e := range agg.Errors {
		var unset env.EnvVarIsNotSetError
		var empty env.EmptyEnvVarError
		switch {
		case errors.As(e, &unset):
			names = append(names, unset.Key)
		case errors.As(e, &empty):
			names = append(names, empty.Key)
		}
	}
	sort.Strings(names)
	return names
}
