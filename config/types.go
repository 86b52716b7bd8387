package config

import "time"

// Config holds the client configuration.
type Config struct {
	Client ClientConfig `koanf:"client"`
	Log    LogConfig    `koanf:"log"`
}

// ClientConfig configures the request client itself.
type ClientConfig struct {
	// BaseURL is the API prefix prepended to request paths. It may be a bare
	// prefix like /api/0 or an absolute origin plus prefix.
	BaseURL string `koanf:"baseurl" validate:"required"`
	// Timeout bounds a single request; zero delegates entirely to the
	// transport defaults.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
	// Headers are sent with every request.
	Headers map[string]string `koanf:"headers"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Pretty bool   `koanf:"pretty"`
}
