// Package utils provides small helpers shared by the sync engine that don't
// fit into a domain-specific package, such as Content-Type detection for uploads.
package utils
