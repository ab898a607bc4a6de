package abandons

import (
	"context"
	"errors"
	"strings"
	"time"

	"abandon-report/core/reconcile"
	"abandon-report/feature/abandons/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// archiveBatchSize is the number of rows inserted per statement.
const archiveBatchSize = 500

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("report run not found")

// Archive stores report runs in the database.
type Archive struct {
	db  *gorm.DB
	now func() time.Time
}

// NewArchive wraps a database connection.
func NewArchive(db *gorm.DB) *Archive {
	return &Archive{db: db, now: time.Now}
}

// Migrate creates or updates the archive tables.
func (a *Archive) Migrate() error {
	return a.db.AutoMigrate(&models.ReportRun{}, &models.ReportRow{})
}

// DB returns the underlying connection.
func (a *Archive) DB() *gorm.DB {
	return a.db
}

// SaveRun stores a run and all its rows in one transaction.
func (a *Archive) SaveRun(ctx context.Context, result *Result) (*models.ReportRun, error) {
	sum := result.Report.Summary
	run := &models.ReportRun{
		ID:                 uuid.NewString(),
		CreatedAt:          a.now().UTC(),
		MasterSource:       result.Sources.Master,
		ReservationsSource: result.Sources.Reservations,
		TransactionSources: strings.Join(result.Sources.Transactions, "|"),
		MasterRows:         sum.MasterRows,
		DroppedInvalidID:   sum.DroppedInvalidID,
		FilteredByReason:   sum.FilteredByReason,
		OutputRows:         sum.OutputRows,
		FanOutRows:         sum.FanOutRows,
		Resolved:           sum.Resolved,
		Manual:             sum.Manual,
		Absent:             sum.Absent,
		SkippedSources:     len(sum.SkippedSources),
		TotalAmount:        sum.TotalAmount,
	}

	rows := make([]models.ReportRow, len(result.Report.Rows))
	for i, r := range result.Report.Rows {
		rows[i] = models.NewReportRow(run.ID, i, r)
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, archiveBatchSize).Error
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// CaseNumbers returns every archived case number.
func (a *Archive) CaseNumbers(ctx context.Context) (map[string]struct{}, error) {
	var numbers []string
	err := a.db.WithContext(ctx).
		Model(&models.ReportRow{}).
		Distinct("case_number").
		Where("case_number <> ?", "").
		Pluck("case_number", &numbers).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		set[strings.TrimSpace(n)] = struct{}{}
	}
	return set, nil
}

// ListRuns returns the latest runs first. A non-positive limit returns all runs.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]models.ReportRun, error) {
	q := a.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var runs []models.ReportRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Rows returns the rows of a run in report order.
func (a *Archive) Rows(ctx context.Context, runID string) ([]models.ReportRow, error) {
	var rows []models.ReportRow
	err := a.db.WithContext(ctx).Where("run_id = ?", runID).Order("position").Find(&rows).Error
	return rows, err
}

// Report returns the rows of an archived run as report rows.
func (a *Archive) Report(ctx context.Context, runID string) ([]reconcile.Row, error) {
	var run models.ReportRun
	err := a.db.WithContext(ctx).Where("id = ?", runID).Take(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	archived, err := a.Rows(ctx, runID)
	if err != nil {
		return nil, err
	}
	rows := make([]reconcile.Row, len(archived))
	for i, r := range archived {
		rows[i] = r.ToRow()
	}
	return rows, nil
}
