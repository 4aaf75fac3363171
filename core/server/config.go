package server

import (
	"fmt"
	"strings"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// ShutdownSeconds bounds graceful shutdown.
	ShutdownSeconds int `mapstructure:"shutdown_seconds" default:"10"`
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Validate refuses to expose the deploy endpoints without an API key.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ApiKey) == "" {
		return fmt.Errorf("server.api_key is required to serve deploy endpoints")
	}
	if c.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	return nil
}
