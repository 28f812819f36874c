// Package config provides configuration management for the visit counter service.
//
// Configuration is loaded from environment variables using the env package.
// All configuration values have defaults matching the container deployment,
// where the store is reachable under the hostname "redis".
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
