// Package config loads application configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - A `.env` file in the working directory is loaded once per process when
//     present; WithEnvFiles adds more files. Existing variables always win.
//   - The environment is parsed into any Go struct using `env` field tags,
//     including nested structs.
//   - WithPrefix namespaces every tag, e.g. to run two upload endpoints with
//     different limits from one environment.
//   - MustLoad panics on failure for configuration required at startup.
//
// # Usage
//
//	type Config struct {
//		UploadDir string `env:"UPLOAD_DIR" envDefault:"/tmp/"`
//		ChunkSize int    `env:"UPLOAD_CHUNK_SIZE" envDefault:"32768"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// # Errors
//
// Parsing failures wrap ErrParsingConfig, dotenv failures wrap
// ErrLoadingEnvFile. Use errors.Is to check for them.
package config
