package checks

import (
	"errors"
	"fmt"
	"sort"

	"log-console/core/database"

	"gorm.io/gorm"
)

// ErrNoDatabase is returned when the database check runs without a connection.
var ErrNoDatabase = errors.New("database connection is nil")

// DatabaseReport is the result of comparing live tables against gorm models.
type DatabaseReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the differences of one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	ExtraColumns   []string `json:"extra_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckDatabase compares the columns of each model's table with the model.
// Extra columns are reported but do not fail the check.
func CheckDatabase(db *gorm.DB, models ...any) (*DatabaseReport, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}

	report := &DatabaseReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range models {
		table, expected, err := database.ExpectedColumns(db, model)
		if err != nil {
			return nil, err
		}

		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		if len(actual) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", table))
			report.Matched = false
			continue
		}

		tbl := compareColumns(expected, actual)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

func compareColumns(expected []string, actual []database.ColumnInfo) TableReport {
	tbl := TableReport{
		MissingColumns: []string{},
		ExtraColumns:   []string{},
		Status:         "ok",
	}

	live := make(map[string]bool, len(actual))
	for _, col := range actual {
		live[col.Field] = true
	}
	known := make(map[string]bool, len(expected))
	for _, name := range expected {
		known[name] = true
		if !live[name] {
			tbl.MissingColumns = append(tbl.MissingColumns, name)
			tbl.Status = "error"
		}
	}
	for _, col := range actual {
		if !known[col.Field] {
			tbl.ExtraColumns = append(tbl.ExtraColumns, col.Field)
		}
	}

	sort.Strings(tbl.MissingColumns)
	sort.Strings(tbl.ExtraColumns)
	return tbl
}
