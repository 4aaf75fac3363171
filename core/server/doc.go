// Package server holds the HTTP server configuration for the deploy webhook.
//
// The serve command listens on Port and requires ApiKey on every deploy
// route. Validate refuses an empty key so the webhook is never exposed
// unauthenticated.
package server
