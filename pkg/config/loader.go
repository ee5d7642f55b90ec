package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

type loadOptions struct {
	envFiles []string
	prefix   string
}

// Option configures Load.
type Option func(*loadOptions)

// WithEnvFiles loads the given dotenv files before parsing. Variables already
// present in the environment are never overridden. Missing files are an error.
func WithEnvFiles(files ...string) Option {
	return func(o *loadOptions) {
		o.envFiles = append(o.envFiles, files...)
	}
}

// WithPrefix prepends prefix to every env tag of the struct, so nested
// configs can be namespaced, e.g. "UPLOAD_".
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.prefix = prefix
	}
}

// Load parses environment variables into the provided configuration struct.
//
// A .env file in the working directory is loaded once per process if it
// exists. Fields are mapped with caarlos0/env tags:
//
//	type ServerConfig struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//		Dir  string `env:"UPLOAD_DIR,required"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	options := &loadOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if len(options.envFiles) > 0 {
		if err := godotenv.Load(options.envFiles...); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}

	if err := env.ParseWithOptions(v, env.Options{Prefix: options.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// This is useful for configurations that are required for the application to start.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}
