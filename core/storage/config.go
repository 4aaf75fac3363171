package storage

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProviderMinio = "minio"
	ProviderS3    = "s3"
)

// spacesEndpointFormat builds a DigitalOcean Spaces endpoint from a region.
const spacesEndpointFormat = "%s.digitaloceanspaces.com"

// Config holds configuration for the storage provider.
type Config struct {
	// Provider selects the client implementation (minio, s3).
	Provider string `mapstructure:"provider" default:"minio"`
	// Endpoint is the URL of the storage service.
	// When empty it is derived from Region as a Spaces endpoint.
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// Bucket is the name of the bucket mirrored from the content directory.
	Bucket string `mapstructure:"bucket" default:""`
	// Region is the location of the bucket (e.g., nyc3, us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// ResolveEndpoint returns the endpoint host without a scheme.
func (c Config) ResolveEndpoint() (string, error) {
	endpoint := strings.TrimPrefix(c.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimSuffix(endpoint, "/")
	if endpoint != "" {
		return endpoint, nil
	}
	if c.Region == "" {
		return "", fmt.Errorf("storage endpoint or region must be set")
	}
	return fmt.Sprintf(spacesEndpointFormat, c.Region), nil
}

// Timeout returns the configured timeout, defaulting to 30s.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the fields required to reach a bucket.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderMinio, ProviderS3:
	default:
		return fmt.Errorf("storage.provider must be %q or %q, got %q", ProviderMinio, ProviderS3, c.Provider)
	}
	if c.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if _, err := c.ResolveEndpoint(); err != nil {
		return err
	}
	return nil
}
