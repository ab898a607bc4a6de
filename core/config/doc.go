// Package config provides configuration management for the abandonment report.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of every section.
//
// # Configuration Structure
//
//   - Report: input/output paths, identifier policies, reason filter, manual marker
//   - Server: HTTP port, API key, upload limit
//   - Storage: S3/MinIO credentials and bucket for extracts and reports
//   - Database: report archive connection
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Report.MasterPath)
package config
