// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (local runs and tests) connections for the report archive.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table; the archive integrity check uses it
// to verify that report_runs and report_rows carry every expected column.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "report_rows")
package database
