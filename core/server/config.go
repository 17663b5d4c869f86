package server

// Config holds configuration for the HTTP control server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// When empty, the API is left open (local single-user setups).
	ApiKey string `mapstructure:"api_key" default:""`
}
