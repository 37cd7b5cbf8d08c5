// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL (production) or SQLite (local use and tests)
// connections from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns lists the live columns of a table and ExpectedColumns lists
// the columns GORM derives from a model. The integrity feature compares both to
// detect schema drift of the log configuration table.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "log_configs")
package database
