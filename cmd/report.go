package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"abandon-report/core/config"
	"abandon-report/core/database"
	"abandon-report/core/logger"
	"abandon-report/core/output"
	"abandon-report/core/reconcile"
	"abandon-report/core/storage"
	"abandon-report/core/tabular"
	"abandon-report/feature/abandons"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reportFlags holds the flags of report build. Empty values fall back to the config.
type reportFlags struct {
	master           string
	reservations     string
	transactions     []string
	output           string
	format           string
	filterReasons    bool
	masterPolicy     string
	lookupPolicy     string
	prior            string
	priorFromArchive bool
	newOutput        string
	archive          bool
	upload           bool
	summaryFormat    string
	fromStorage      bool
}

var buildFlags reportFlags

var diffOutput string

// reportCmd is the parent command for report operations.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build and compare abandoned passenger reports",
}

// reportBuildCmd runs the full pipeline.
var reportBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the abandoned passenger report",
	Long: `Reads the compensation master list, the journey log and every transaction
extract, resolves the journey start of each compensation and writes the report.

Examples:
  # Defaults from the configuration (.env / environment)
  report build

  # Explicit inputs, several transaction folders, Excel output
  report build --master master.xlsx --reservations reservas.csv \
    --transactions transacciones --transactions extra/*.csv --output out.xlsx

  # Only compensations not present in last week's report
  report build --prior last_week.csv --new-output new.csv

  # Inputs from the bucket, archive the run and upload the report
  report build --from-storage --archive --upload`,
	RunE: runReportBuild,
}

// reportDiffCmd filters a report against a prior one.
var reportDiffCmd = &cobra.Command{
	Use:   "diff <current> <prior>",
	Short: "Keep the rows of a report whose case number is not in a prior report",
	Args:  cobra.ExactArgs(2),
	RunE:  runReportDiff,
}

func init() {
	f := reportBuildCmd.Flags()
	f.StringVar(&buildFlags.master, "master", "", "Compensation master list (CSV or XLSX)")
	f.StringVar(&buildFlags.reservations, "reservations", "", "Journey log export")
	f.StringArrayVar(&buildFlags.transactions, "transactions", nil, "Transaction extract: file, folder or glob (repeatable)")
	f.StringVarP(&buildFlags.output, "output", "o", "", "Report file")
	f.StringVar(&buildFlags.format, "format", "", "Report format (csv, xlsx); defaults to the output extension")
	f.BoolVar(&buildFlags.filterReasons, "filter-reasons", false, "Keep only the allowed compensation reasons")
	f.StringVar(&buildFlags.masterPolicy, "master-policy", "", "Identifier policy of the master list (strict, lenient)")
	f.StringVar(&buildFlags.lookupPolicy, "lookup-policy", "", "Identifier policy of reservations and transactions (strict, lenient)")
	f.StringVar(&buildFlags.prior, "prior", "", "Previous report; its case numbers are not new")
	f.BoolVar(&buildFlags.priorFromArchive, "prior-from-archive", false, "Use every archived case number as the prior set")
	f.StringVar(&buildFlags.newOutput, "new-output", "", "File receiving only the new rows")
	f.BoolVar(&buildFlags.archive, "archive", false, "Store the run in the report archive")
	f.BoolVar(&buildFlags.upload, "upload", false, "Upload the report files to the bucket")
	f.StringVar(&buildFlags.summaryFormat, "summary-format", "", "Summary format (table, json, yaml); defaults to table on a terminal")
	f.BoolVar(&buildFlags.fromStorage, "from-storage", false, "Read the inputs from the bucket")

	reportDiffCmd.Flags().StringVarP(&diffOutput, "output", "o", "", "Report file receiving the new rows (required)")
	_ = reportDiffCmd.MarkFlagRequired("output")

	reportCmd.AddCommand(reportBuildCmd, reportDiffCmd)
	RootCmd.AddCommand(reportCmd)
}

func runReportBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	newFormat, err := validateNewOutput(buildFlags)
	if err != nil {
		return err
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

	opts, err := buildOptions(cmd, cfg.Report)
	if err != nil {
		return err
	}

	summaryFormat, err := output.ParseFormat(buildFlags.summaryFormat)
	if err != nil {
		return err
	}

	outPath := firstNonEmpty(buildFlags.output, cfg.Report.OutputPath)
	format, err := reportFormat(buildFlags.format, outPath)
	if err != nil {
		return err
	}
	outPath = withExtension(outPath, format)

	var store storage.Client
	if buildFlags.fromStorage || buildFlags.upload {
		if store, err = openStorage(cfg.Storage); err != nil {
			return err
		}
	}

	var archive *abandons.Archive
	if buildFlags.archive || buildFlags.priorFromArchive {
		if archive, err = openArchive(cfg.Database); err != nil {
			return err
		}
	}

	req := abandons.Request{Options: opts, PriorFromArchive: buildFlags.priorFromArchive}
	if buildFlags.fromStorage {
		err = storageInputs(ctx, store, cfg.Storage.Bucket, &req)
	} else {
		err = fileInputs(cfg.Report, &req)
	}
	if err != nil {
		return err
	}
	if buildFlags.prior != "" {
		req.Prior = abandons.FileSource{Path: buildFlags.prior}
	}

	svc := abandons.NewService(logg, nil, archive)
	result, err := svc.Run(ctx, req)
	if err != nil {
		return err
	}

	if err := writeReport(outPath, format, result.Report.Rows); err != nil {
		return err
	}
	logg.Info("Report written", zap.String("file", outPath), zap.Int("rows", len(result.Report.Rows)))

	if buildFlags.newOutput != "" {
		if err := writeReport(buildFlags.newOutput, newFormat, result.New); err != nil {
			return err
		}
		logg.Info("New rows written", zap.String("file", buildFlags.newOutput), zap.Int("rows", len(result.New)))
	}

	runID := uuid.NewString()
	if buildFlags.archive {
		if runID, err = svc.SaveRun(ctx, result); err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
	}

	if buildFlags.upload {
		pub := abandons.NewPublisher(store, cfg.Storage.Bucket)
		key, err := pub.Publish(ctx, runID, outPath, result.Report.Rows)
		if err != nil {
			return err
		}
		logg.Info("Report uploaded", zap.String("bucket", cfg.Storage.Bucket), zap.String("key", key))

		if buildFlags.newOutput != "" {
			key, err := pub.Publish(ctx, runID, buildFlags.newOutput, result.New)
			if err != nil {
				return err
			}
			logg.Info("New rows uploaded", zap.String("bucket", cfg.Storage.Bucket), zap.String("key", key))
		}
	}

	logg.Info("Report build completed",
		zap.String("run_id", runID),
		zap.Int("processed_rows", result.Report.Summary.OutputRows),
		zap.Duration("execution_time", time.Since(startTime)),
	)

	return output.NewFormatter(summaryFormat).Format(cmd.OutOrStdout(), abandons.NewSummaryView(result))
}

func runReportDiff(cmd *cobra.Command, args []string) error {
	current, err := tabular.ReadFile(args[0], tabular.KeepNA())
	if err != nil {
		return err
	}
	prior, err := tabular.ReadFile(args[1])
	if err != nil {
		return err
	}

	fresh, err := abandons.DiffReports(current, prior)
	if err != nil {
		return err
	}
	if err := tabular.WriteFile(diffOutput, fresh.Header, fresh.Rows); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows are new; written to %s\n", fresh.Len(), current.Len(), diffOutput)
	return nil
}

// validateNewOutput checks --new-output before any input is read. It returns
// the format of the new rows file.
func validateNewOutput(f reportFlags) (tabular.Format, error) {
	if f.newOutput == "" {
		return "", nil
	}
	if f.prior == "" && !f.priorFromArchive {
		return "", errors.New("--new-output requires --prior or --prior-from-archive")
	}
	return tabular.FormatFromName(f.newOutput)
}

// buildOptions applies the flags that were set on top of the configured defaults.
func buildOptions(cmd *cobra.Command, cfg config.ReportConfig) (reconcile.Options, error) {
	flags := cmd.Flags()
	if flags.Changed("filter-reasons") {
		cfg.FilterReasons = buildFlags.filterReasons
	}
	if flags.Changed("master-policy") {
		cfg.MasterPolicy = buildFlags.masterPolicy
	}
	if flags.Changed("lookup-policy") {
		cfg.LookupPolicy = buildFlags.lookupPolicy
	}
	return abandons.OptionsFromConfig(cfg)
}

// fileInputs fills req from local paths.
func fileInputs(cfg config.ReportConfig, req *abandons.Request) error {
	req.Master = abandons.FileSource{Path: firstNonEmpty(buildFlags.master, cfg.MasterPath)}
	req.Reservations = abandons.FileSource{Path: firstNonEmpty(buildFlags.reservations, cfg.ReservationsPath)}

	patterns := buildFlags.transactions
	if len(patterns) == 0 {
		patterns = []string{cfg.TransactionsDir}
	}
	sources, err := abandons.FileSources(patterns...)
	if err != nil {
		return err
	}
	req.Transactions = sources
	return nil
}

// storageInputs fills req with the latest master and reservations objects and
// every transaction object of the bucket.
func storageInputs(ctx context.Context, client storage.Client, bucket string, req *abandons.Request) error {
	var err error
	if req.Master, err = abandons.LatestObject(ctx, client, bucket, abandons.PrefixMaster, ".csv", ".xlsx"); err != nil {
		return err
	}
	if req.Reservations, err = abandons.LatestObject(ctx, client, bucket, abandons.PrefixReservations, ".csv", ".xlsx"); err != nil {
		return err
	}
	req.Transactions, err = abandons.ObjectSources(ctx, client, bucket, abandons.PrefixTransactions)
	return err
}

func openStorage(cfg storage.Config) (storage.Client, error) {
	if !cfg.Enabled {
		return nil, errors.New("object storage is disabled (set STORAGE_ENABLED=true)")
	}
	client, err := storage.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

// openArchive connects to the archive database and migrates its tables.
func openArchive(cfg database.Config) (*abandons.Archive, error) {
	if !cfg.Enabled {
		return nil, abandons.ErrArchiveDisabled
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	archive := abandons.NewArchive(db)
	if err := archive.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate archive: %w", err)
	}
	return archive, nil
}

// reportFormat picks the explicit format or the one implied by the output name.
func reportFormat(explicit, outPath string) (tabular.Format, error) {
	if explicit != "" {
		return tabular.ParseFormat(explicit)
	}
	return tabular.FormatFromName(outPath)
}

func writeReport(path string, format tabular.Format, rows []reconcile.Row) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := abandons.WriteReport(f, format, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// withExtension makes the file name agree with an explicit --format.
func withExtension(name string, format tabular.Format) string {
	ext := "." + string(format)
	if filepath.Ext(name) == ext {
		return name
	}
	return name[:len(name)-len(filepath.Ext(name))] + ext
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
