// Package server holds the configuration for the HTTP control API.
//
// The server itself is assembled in cmd/start.go from Fiber, the middleware
// packages and the feature loader; this package only owns the settings.
package server
