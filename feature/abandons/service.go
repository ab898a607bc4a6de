package abandons

import (
	"context"
	"errors"
	"fmt"

	"abandon-report/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelExtracts bounds concurrent transaction file reads.
const maxParallelExtracts = 4

// ErrArchiveDisabled is returned when an operation needs the archive database.
var ErrArchiveDisabled = errors.New("report archive is not configured")

// Request describes one report run.
type Request struct {
	Master       Source
	Reservations Source
	Transactions []Source

	// Prior is a previous report whose case numbers are not new.
	Prior Source

	// PriorFromArchive uses every archived case number as the prior set.
	PriorFromArchive bool

	// Options controls the reconcile engine.
	Options reconcile.Options
}

// Result is the outcome of a run.
type Result struct {
	// Report holds every row and the summary.
	Report *reconcile.Report

	// New holds the rows absent from the prior set. Nil when no prior set was given.
	New []reconcile.Row

	// Sources names the inputs that took part.
	Sources RunSources
}

// RunSources names the inputs of a run.
type RunSources struct {
	Master       string   `json:"master"`
	Reservations string   `json:"reservations"`
	Transactions []string `json:"transactions"`
}

// HasPrior reports whether the run was diffed against a prior set.
func (r *Result) HasPrior() bool {
	return r.New != nil
}

// Service runs reports.
type Service struct {
	logger  *zap.Logger
	cache   *reconcile.IndexCache
	archive *Archive
}

// NewService creates a report service. cache and archive may be nil.
func NewService(logger *zap.Logger, cache *reconcile.IndexCache, archive *Archive) *Service {
	if cache == nil {
		cache = reconcile.NewIndexCache(0)
	}
	return &Service{logger: logger, cache: cache, archive: archive}
}

// Archive returns the archive, or nil when disabled.
func (s *Service) Archive() *Archive {
	return s.archive
}

// loaded holds the records read for a run.
type loaded struct {
	master       []reconcile.MasterRecord
	reservations *reconcile.ReservationIndex
	transactions []reconcile.TransactionRecord
	used         []string
	skipped      []reconcile.SkippedSource
	prior        map[string]struct{}
}

// Run loads the inputs, builds the report and, when a prior set is available,
// selects the new rows. A missing file or required column aborts the run; a
// broken transaction extract is skipped and reported in the summary.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Master == nil || req.Reservations == nil {
		return nil, errors.New("master and reservations inputs are required")
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("Loading report inputs",
		zap.String("master", req.Master.Name()),
		zap.String("reservations", req.Reservations.Name()),
		zap.Int("transaction_files", len(req.Transactions)),
	)

	in, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	report, err := reconcile.Build(reconcile.Input{
		Master:           in.master,
		ReservationIndex: in.reservations,
		Transactions:     in.transactions,
	}, req.Options)
	if err != nil {
		return nil, err
	}
	report.Summary.SkippedSources = in.skipped

	result := &Result{
		Report: report,
		Sources: RunSources{
			Master:       req.Master.Name(),
			Reservations: req.Reservations.Name(),
			Transactions: in.used,
		},
	}
	if in.prior != nil {
		result.New = reconcile.NewRecords(report.Rows, in.prior)
	}

	sum := report.Summary
	s.logger.Info("Report built",
		zap.Int("master_rows", sum.MasterRows),
		zap.Int("dropped_invalid_id", sum.DroppedInvalidID),
		zap.Int("filtered_by_reason", sum.FilteredByReason),
		zap.Int("output_rows", sum.OutputRows),
		zap.Int("fan_out_rows", sum.FanOutRows),
		zap.Int("resolved", sum.Resolved),
		zap.Int("manual", sum.Manual),
		zap.Int("absent", sum.Absent),
		zap.Int("skipped_sources", len(sum.SkippedSources)),
	)
	if sum.FanOutRows > 0 {
		s.logger.Warn("Duplicate reservation ids duplicated master rows", zap.Int("extra_rows", sum.FanOutRows))
	}
	if result.HasPrior() {
		s.logger.Info("Incremental filter applied", zap.Int("new_rows", len(result.New)))
	}

	return result, nil
}

func (s *Service) load(ctx context.Context, req Request) (*loaded, error) {
	in := &loaded{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := LoadTable(gctx, req.Master)
		if err != nil {
			return err
		}
		s.logTableWarnings(t.Name, len(t.Warnings))
		in.master, err = MasterRecords(t)
		return err
	})

	g.Go(func() error {
		idx, err := s.cache.GetOrBuild(gctx, req.Reservations.ID(), req.Options.LookupPolicy, func(ctx context.Context) ([]reconcile.ReservationRecord, error) {
			t, err := LoadTable(ctx, req.Reservations)
			if err != nil {
				return nil, err
			}
			s.logTableWarnings(t.Name, len(t.Warnings))
			return ReservationRecords(t)
		})
		in.reservations = idx
		return err
	})

	g.Go(func() error {
		in.transactions, in.used, in.skipped = s.loadTransactions(gctx, req.Transactions)
		return nil
	})

	if req.Prior != nil || req.PriorFromArchive {
		g.Go(func() error {
			prior, err := s.loadPrior(gctx, req)
			in.prior = prior
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

// loadTransactions reads every extract, skipping those that fail.
func (s *Service) loadTransactions(ctx context.Context, sources []Source) ([]reconcile.TransactionRecord, []string, []reconcile.SkippedSource) {
	if len(sources) == 0 {
		s.logger.Warn("No transaction files found; every unmatched record resolves as absent")
		return nil, nil, nil
	}

	perFile := make([][]reconcile.TransactionRecord, len(sources))
	failures := make([]error, len(sources))

	var g errgroup.Group
	g.SetLimit(maxParallelExtracts)
	for i, src := range sources {
		g.Go(func() error {
			t, err := LoadTable(ctx, src)
			if err == nil {
				s.logTableWarnings(t.Name, len(t.Warnings))
				perFile[i], err = TransactionRecords(t)
			}
			failures[i] = err
			return nil
		})
	}
	_ = g.Wait()

	var (
		records []reconcile.TransactionRecord
		used    []string
		skipped []reconcile.SkippedSource
	)
	for i, src := range sources {
		if failures[i] != nil {
			s.logger.Warn("Skipping transaction file", zap.String("file", src.Name()), zap.Error(failures[i]))
			skipped = append(skipped, reconcile.SkippedSource{Source: src.Name(), Reason: failures[i].Error()})
			continue
		}
		records = append(records, perFile[i]...)
		used = append(used, src.Name())
	}

	s.logger.Info("Transaction files merged", zap.Int("files", len(used)), zap.Int("rows", len(records)))
	return records, used, skipped
}

func (s *Service) loadPrior(ctx context.Context, req Request) (map[string]struct{}, error) {
	prior := make(map[string]struct{})

	if req.Prior != nil {
		t, err := LoadTable(ctx, req.Prior)
		if err != nil {
			return nil, err
		}
		numbers, err := CaseNumbers(t)
		if err != nil {
			return nil, err
		}
		for k := range reconcile.CaseNumberSet(numbers) {
			prior[k] = struct{}{}
		}
	}

	if req.PriorFromArchive {
		if s.archive == nil {
			return nil, ErrArchiveDisabled
		}
		archived, err := s.archive.CaseNumbers(ctx)
		if err != nil {
			return nil, fmt.Errorf("read archived case numbers: %w", err)
		}
		for k := range archived {
			prior[k] = struct{}{}
		}
	}

	return prior, nil
}

func (s *Service) logTableWarnings(name string, count int) {
	if count > 0 {
		s.logger.Warn("Malformed rows padded or truncated", zap.String("file", name), zap.Int("rows", count))
	}
}

// SaveRun archives a result and returns the run id.
func (s *Service) SaveRun(ctx context.Context, result *Result) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}
	run, err := s.archive.SaveRun(ctx, result)
	if err != nil {
		return "", err
	}
	s.logger.Info("Run archived", zap.String("run_id", run.ID), zap.Int("rows", len(result.Report.Rows)))
	return run.ID, nil
}
