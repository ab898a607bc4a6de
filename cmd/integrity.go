package cmd

import (
	"context"
	"errors"
	"fmt"

	"abandon-report/core/config"
	"abandon-report/core/database"
	"abandon-report/core/logger"
	"abandon-report/core/storage"
	"abandon-report/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the bucket and the report archive",
	Long:  `Checks that the storage bucket has the required folders and inputs, and that the archive schema matches the report models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// inputsCmd represents the integrity inputs command
var inputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "List the extracts a --from-storage build would read",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// archiveCmd represents the integrity archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Check the report archive schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, inputsCmd, archiveCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
}

func runIntegrityChecks(ctx context.Context, runStructure, runInputs, runArchive bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	if runArchive && (runStructure || runInputs) && !cfg.Storage.Enabled {
		logg.Info("Object storage is disabled, skipping bucket checks.")
		runStructure, runInputs = false, false
	}

	var store storage.Client
	if runStructure || runInputs {
		if store, err = openStorage(cfg.Storage); err != nil {
			return err
		}
	}

	var db *gorm.DB
	if runArchive && cfg.Database.Enabled {
		// No migration here: the check reports the schema as it is.
		if db, err = database.Connect(cfg.Database); err != nil {
			return err
		}
	}

	svc := integrity.NewService(store, cfg.Storage.Bucket, logg, db)

	if runStructure {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run 'integrity structure --fix' to create missing folders.")
			}
		}
	}

	if runInputs {
		logg.Info("Checking input extracts...")
		report, err := svc.CheckInputs(ctx)
		if err != nil {
			return fmt.Errorf("inputs check failed: %w", err)
		}

		fields := []zap.Field{
			zap.String("master", report.Master),
			zap.String("reservations", report.Reservations),
			zap.Int("transaction_files", len(report.Transactions)),
		}
		if report.Ready {
			logg.Info("Inputs are ready.", fields...)
		} else {
			logg.Warn("Inputs are incomplete", append(fields, zap.Strings("missing", report.Missing))...)
		}
	}

	if runArchive {
		logg.Info("Checking archive schema...")
		report, err := svc.CheckArchive()
		switch {
		case errors.Is(err, integrity.ErrNoArchive):
			logg.Info("Report archive is disabled (set DATABASE_ENABLED=true).")
		case err != nil:
			return fmt.Errorf("archive check failed: %w", err)
		case report.Matched:
			logg.Info("Archive schema matches the report models.")
		default:
			logg.Warn("Archive schema mismatches found")
			for table, tbl := range report.Tables {
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	return nil
}
