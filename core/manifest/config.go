package manifest

// Config controls the optional manifest cache.
type Config struct {
	// Enabled turns on manifest lookups and updates.
	Enabled bool `mapstructure:"enabled" default:"false"`
}
