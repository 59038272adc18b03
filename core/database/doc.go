// Package database handles connections to the order-data database and schema
// inspection.
//
// It wraps GORM and configures either MySQL (production) or SQLite (local runs
// and tests) from the application's configuration.
//
// # Connect
//
// Connect opens the driver named in Config.Driver, applies pool settings and
// verifies the connection with a ping bounded by Config.TimeoutSeconds.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the integrity feature verify that the
// order_lines, picked_units and scan_events tables carry the columns the
// picking store needs.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "order_lines", []string{"order_id", "part_no"})
package database
