// Package config provides configuration management for spaces-sync.
//
// Settings come from environment variables, optionally seeded from a .env
// file in the base directory. Every field carries a `default` tag that is
// registered with Viper so it can be overridden by the matching variable
// (storage.bucket -> STORAGE_BUCKET).
//
// # Configuration Structure
//
//   - Storage: endpoint, region, credentials and bucket
//   - Sync: content directory, workers, replace and compare modes, ignore patterns
//   - Log: logging level and format
//   - Manifest / Database: optional verified-state cache
//   - Server: deploy webhook port and API key
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
