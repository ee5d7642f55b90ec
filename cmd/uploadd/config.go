package main

import (
	"github.com/dmitrymomot/streamupload/pkg/file"
	"github.com/dmitrymomot/streamupload/pkg/httpserver"
	"github.com/dmitrymomot/streamupload/pkg/mongo"
)

// Config is the service configuration, loaded from the environment.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"uploadd"`
	Env         string `env:"APP_ENV" envDefault:"development"`

	Upload UploadConfig
	HTTP   httpserver.Config
	Mongo  mongo.Config
	S3     file.S3Config
}

// UploadConfig controls request decoding.
type UploadConfig struct {
	Dir            string `env:"UPLOAD_DIR"`                                   // Unset or empty writes anonymous temp files.
	ChunkSize      int    `env:"UPLOAD_CHUNK_SIZE" envDefault:"32768"`         // Read buffer per request.
	MaxHeaderBytes int    `env:"UPLOAD_MAX_HEADER_BYTES" envDefault:"16384"`   // Per part header block.
	MaxFieldBytes  int64  `env:"UPLOAD_MAX_FIELD_BYTES" envDefault:"10485760"` // Per in-memory field value.
	MaxBodyBytes   int64  `env:"UPLOAD_MAX_BODY_BYTES" envDefault:"0"`         // Zero means unlimited.
}
