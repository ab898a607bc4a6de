package abandons_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"abandon-report/core/database"
	"abandon-report/core/reconcile"
	"abandon-report/core/tabular"
	"abandon-report/feature/abandons"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRequest(t *testing.T, in inputs) abandons.Request {
	t.Helper()
	transactions, err := abandons.FileSources(in.transactions)
	require.NoError(t, err)

	return abandons.Request{
		Master:       abandons.FileSource{Path: in.master},
		Reservations: abandons.FileSource{Path: in.reservations},
		Transactions: transactions,
		Options:      reconcile.DefaultOptions(),
	}
}

func newArchive(t *testing.T) *abandons.Archive {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	archive := abandons.NewArchive(db)
	require.NoError(t, archive.Migrate())
	return archive
}

func TestServiceRun(t *testing.T) {
	in := writeInputs(t)
	svc := abandons.NewService(zap.NewNop(), nil, nil)

	result, err := svc.Run(context.Background(), newRequest(t, in))
	require.NoError(t, err)

	rows := result.Report.Rows
	require.Len(t, rows, 3)

	assert.Equal(t, "T1", rows[0].CaseNumber)
	assert.Equal(t, "01/03/2025 08:00:00", rows[0].StartLocalAt)
	assert.Equal(t, "01/03/2025", rows[0].Date)
	assert.Equal(t, "8", rows[0].Hour)

	assert.Equal(t, "T2", rows[1].CaseNumber)
	assert.Equal(t, "Ingresar Manualmente", rows[1].StartLocalAt)
	assert.Equal(t, "Ingresar Manualmente", rows[1].Date)
	assert.Equal(t, "", rows[1].Hour)

	assert.Equal(t, "T3", rows[2].CaseNumber)
	assert.Equal(t, "", rows[2].StartLocalAt)
	assert.Equal(t, "", rows[2].Date)
	assert.Equal(t, "", rows[2].Hour)

	sum := result.Report.Summary
	assert.Equal(t, 4, sum.MasterRows)
	assert.Equal(t, 1, sum.DroppedInvalidID)
	require.Len(t, sum.SkippedSources, 1)
	assert.Equal(t, "broken.csv", filepath.Base(sum.SkippedSources[0].Source))
	assert.Contains(t, sum.SkippedSources[0].Reason, "missing column")

	require.Len(t, result.Sources.Transactions, 1)
	assert.Equal(t, "tx1.csv", filepath.Base(result.Sources.Transactions[0]))
	assert.False(t, result.HasPrior())
}

func TestServiceRun_ReasonFilter(t *testing.T) {
	in := writeInputs(t)
	req := newRequest(t, in)
	req.Options.FilterReasons = true

	result, err := abandons.NewService(zap.NewNop(), nil, nil).Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Report.Rows, 2)
	assert.Equal(t, 1, result.Report.Summary.FilteredByReason)
}

func TestServiceRun_NoTransactions(t *testing.T) {
	in := writeInputs(t)
	req := newRequest(t, in)
	req.Transactions = nil

	result, err := abandons.NewService(zap.NewNop(), nil, nil).Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, result.Report.Rows, 3)
	assert.Equal(t, "", result.Report.Rows[1].StartLocalAt)
	assert.Equal(t, 2, result.Report.Summary.ByRule[reconcile.RuleNoTransaction])
}

func TestServiceRun_PriorReport(t *testing.T) {
	in := writeInputs(t)
	req := newRequest(t, in)
	req.Prior = abandons.FileSource{Path: in.prior}

	result, err := abandons.NewService(zap.NewNop(), nil, nil).Run(context.Background(), req)
	require.NoError(t, err)

	require.True(t, result.HasPrior())
	require.Len(t, result.New, 2)
	assert.Equal(t, "T2", result.New[0].CaseNumber)
	assert.Equal(t, "T3", result.New[1].CaseNumber)
}

func TestServiceRun_LoadErrors(t *testing.T) {
	in := writeInputs(t)
	noID := writeFile(t, filepath.Join(in.dir, "no_id.csv"), "Numero,Fecha\nT1,2025-01-01\n")

	tests := []struct {
		name    string
		mutate  func(*abandons.Request)
		wantErr error
	}{
		{
			name:    "missing master",
			mutate:  func(r *abandons.Request) { r.Master = abandons.FileSource{Path: filepath.Join(in.dir, "absent.xlsx")} },
			wantErr: tabular.ErrMissingFile,
		},
		{
			name:    "master without reservation id",
			mutate:  func(r *abandons.Request) { r.Master = abandons.FileSource{Path: noID} },
			wantErr: tabular.ErrMissingColumn,
		},
		{
			name:    "reservations without start column",
			mutate:  func(r *abandons.Request) { r.Reservations = abandons.FileSource{Path: noID} },
			wantErr: tabular.ErrMissingColumn,
		},
		{
			name:    "prior without case numbers",
			mutate:  func(r *abandons.Request) { r.Prior = abandons.FileSource{Path: in.reservations} },
			wantErr: tabular.ErrMissingColumn,
		},
		{
			name:    "archive prior without archive",
			mutate:  func(r *abandons.Request) { r.PriorFromArchive = true },
			wantErr: abandons.ErrArchiveDisabled,
		},
		{
			name:    "invalid options",
			mutate:  func(r *abandons.Request) { r.Options.MasterPolicy = "fuzzy" },
			wantErr: reconcile.ErrInvalidOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, in)
			tt.mutate(&req)

			_, err := abandons.NewService(zap.NewNop(), nil, nil).Run(context.Background(), req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestServiceRun_CachesReservations(t *testing.T) {
	in := writeInputs(t)
	svc := abandons.NewService(zap.NewNop(), reconcile.NewIndexCache(time.Minute), nil)

	_, err := svc.Run(context.Background(), newRequest(t, in))
	require.NoError(t, err)

	// A rewritten file has a new identity and is read again.
	writeFile(t, in.reservations, "id_reservation_id;tm_start_local_at\n57;05-03-2025 10:00:00\n")
	result, err := svc.Run(context.Background(), newRequest(t, in))
	require.NoError(t, err)

	assert.Equal(t, "", result.Report.Rows[0].StartLocalAt)
	assert.Equal(t, "05/03/2025 10:00:00", result.Report.Rows[2].StartLocalAt)
}

func TestServiceRun_ArchiveRoundTrip(t *testing.T) {
	in := writeInputs(t)
	archive := newArchive(t)
	svc := abandons.NewService(zap.NewNop(), nil, archive)

	first, err := svc.Run(context.Background(), newRequest(t, in))
	require.NoError(t, err)
	runID, err := svc.SaveRun(context.Background(), first)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	req := newRequest(t, in)
	req.PriorFromArchive = true
	second, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.HasPrior())
	assert.Empty(t, second.New)
}

func TestServiceSaveRun_Disabled(t *testing.T) {
	svc := abandons.NewService(zap.NewNop(), nil, nil)
	_, err := svc.SaveRun(context.Background(), &abandons.Result{Report: &reconcile.Report{}})
	assert.ErrorIs(t, err, abandons.ErrArchiveDisabled)
}
