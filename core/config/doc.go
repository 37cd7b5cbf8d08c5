// Package config provides configuration management for the log console.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each
// sub-configuration.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP port, API key and console view lifetimes
//   - Database: log configuration database (MySQL or SQLite)
//   - Storage: S3/MinIO credentials and the bucket holding sample logs
//   - Log: logging level and format
//   - Matcher: regex worker pool size and match timeout
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
