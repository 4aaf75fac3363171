// Package database handles database connections for the sync manifest.
//
// It provides a wrapper around GORM to configure either a MySQL server or a
// local sqlite file based on the application's configuration. sqlite is the
// default so a manifest works with no infrastructure; MySQL lets several CI
// runners share one manifest.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("manifest database: %w", err)
//	}
package database
