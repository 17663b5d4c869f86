// Package config loads the application configuration.
//
// Configuration is assembled from partial Config structs owned by the
// consuming packages (server, logger, registry, storage, watcher). Defaults
// come from 'default' struct tags, overridable through environment variables
// (SERVER_PORT, WATCHER_DEBOUNCE_SECONDS, ...) and an optional .env file.
package config
