package cmd

import (
	"context"
	"encoding/json"
	"os"

	"log-console/core/database"
	"log-console/core/storage"
	"log-console/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and database",
	Long:  `Runs every integrity check concurrently and prints the combined report as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIntegrity(cmd.Context(), func(ctx context.Context, svc *integrity.Service, logg *zap.Logger) error {
			return printJSON(svc.CheckAll(ctx))
		})
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the bucket folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIntegrity(cmd.Context(), func(ctx context.Context, svc *integrity.Service, logg *zap.Logger) error {
			result, err := svc.Structure(ctx, fixFlag)
			if err != nil {
				return err
			}
			if len(result.Missing) == 0 {
				logg.Info("Folder structure is intact.")
			} else if result.Status == "fixed" {
				logg.Info("Structure fixed successfully.", zap.Strings("created", result.Missing))
			} else {
				logg.Warn("Missing folders detected", zap.Strings("missing", result.Missing))
				logg.Info("Run with --fix to create missing folders.")
			}
			return nil
		})
	},
}

// samplesCheckCmd represents the integrity samples command
var samplesCheckCmd = &cobra.Command{
	Use:   "samples",
	Short: "Report empty and oversized sample logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIntegrity(cmd.Context(), func(ctx context.Context, svc *integrity.Service, logg *zap.Logger) error {
			report, err := svc.CheckSamples(ctx)
			if err != nil {
				return err
			}
			return printJSON(report)
		})
	},
}

// databaseCheckCmd represents the integrity database command
var databaseCheckCmd = &cobra.Command{
	Use:   "database",
	Short: "Compare the database schema with the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withIntegrity(cmd.Context(), func(ctx context.Context, svc *integrity.Service, logg *zap.Logger) error {
			report, err := svc.CheckDatabase()
			if err != nil {
				return err
			}
			if report.Matched {
				logg.Info("Database schema matches the models.")
				return nil
			}
			for table, tbl := range report.Tables {
				if tbl.Status != "ok" {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
			return printJSON(report)
		})
	},
}

func init() {
	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket and missing folders")

	integrityCmd.AddCommand(structureCmd)
	integrityCmd.AddCommand(samplesCheckCmd)
	integrityCmd.AddCommand(databaseCheckCmd)
	RootCmd.AddCommand(integrityCmd)
}

// withIntegrity builds the integrity service from the configuration and runs fn.
func withIntegrity(ctx context.Context, fn func(ctx context.Context, svc *integrity.Service, logg *zap.Logger) error) error {
	cfg, logg, err := bootstrap()
	if err != nil {
		return err
	}
	defer logg.Sync()

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return err
	}

	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Database unavailable, schema checks will fail", zap.Error(err))
	} else {
		db = conn
	}

	svc := integrity.NewService(store, cfg.Storage.Bucket, cfg.Storage.MaxObjectBytes, db, logg)
	return fn(ctx, svc, logg)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
