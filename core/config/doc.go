// Package config provides configuration management for the pick reconciler.
//
// It uses Viper to load settings from environment variables and an optional
// .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, station name
//   - Database: order-data database (MySQL or SQLite)
//   - Storage: S3/MinIO credentials, archive bucket and prefix
//   - Log: logging level and format
//   - Kafka: pick event publisher
//   - Reconcile: separator characters stripped from label fields
//
// Environment variables map to nested keys by replacing "." with "_", so
// SERVER_PORT sets server.port and KAFKA_BROKERS sets kafka.brokers.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
