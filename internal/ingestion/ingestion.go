package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/sharepeak/internal/aggregator"
	"github.com/guttosm/sharepeak/internal/cache"
	"github.com/guttosm/sharepeak/internal/domain/errs"
	"github.com/guttosm/sharepeak/internal/domain/models"
	"github.com/guttosm/sharepeak/internal/logger"
	"github.com/guttosm/sharepeak/internal/metrics"
	"github.com/guttosm/sharepeak/internal/storage"
)

const (
	fileExt            = ".csv"
	defaultMaxParallel = 4
	maxParallelLimit   = 8
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.ReportsRepository {
	return storage.NewReportsRepository(db)
}

// Result is the outcome of aggregating one share data stream.
type Result struct {
	Companies []string
	Entries   []models.MaxPrice
	Rows      int
}

// ValidateFile checks that path exists, is a regular file and carries the
// .csv extension. Failures are errs.KindSourceUnavailable.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errs.SourceUnavailable(err, "share data file does not exist")
	}
	if info.IsDir() {
		return errs.SourceUnavailable(nil, "share data path %s is a directory", path)
	}
	if !strings.EqualFold(filepath.Ext(path), fileExt) {
		return errs.SourceUnavailable(nil, "only %s share data files are supported, got %s", fileExt, filepath.Base(path))
	}
	return nil
}

// Analyze reads the header and every row of r through a single aggregator.
// The first error aborts the run and no partial report is returned.
func Analyze(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	rd, err := NewReader(r, opts...)
	if err != nil {
		return nil, err
	}
	agg, err := aggregator.New(rd.Companies())
	if err != nil {
		return nil, err
	}

	for {
		row, err := rd.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := agg.Observe(row); err != nil {
			return nil, err
		}
	}
	metrics.RowsProcessed.Add(float64(agg.Rows()))

	return &Result{
		Companies: agg.Companies(),
		Entries:   agg.Report(),
		Rows:      agg.Rows(),
	}, nil
}

// AnalyzeFile validates path and aggregates its content.
func AnalyzeFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.SourceUnavailable(err, "open %s", filepath.Base(path))
	}
	defer func() { _ = f.Close() }()

	return Analyze(ctx, f, opts...)
}

// SourceName derives the report key of a file: its base name without extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ProcessDirectory analyzes every .csv file in dir and persists one report per file.
//
// Behavior:
//   - Each file is read by exactly one goroutine with its own aggregator.
//   - Concurrency defaults to min(4, NumCPU); parallel > 0 overrides it (max 8).
//   - Sources already present in the ingestion log are skipped unless force.
//   - After a report is saved its cache entry in rc is invalidated; rc may be nil.
//     Cache failures are logged and never fail the file.
//   - If any file fails, the remaining ones are canceled and that error is returned.
//
// The report and its ingestion log row are written separately, report first.
// A file is only considered ingested once its log row exists, so a failed log
// upsert leaves the source unlisted and the next run ingests it again.
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, rc cache.ReportCache, parallel int, force bool, opts ...Option) error {
	if rc == nil {
		rc = cache.Noop{}
	}
	// use indirection to allow tests to swap repository constructor
	repo := repoCtor(db)

	files, err := listShareFiles(dir)
	if err != nil {
		return err
	}

	maxParallel := defaultMaxParallel
	if parallel > 0 {
		maxParallel = min(parallel, maxParallelLimit)
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("ingestion start")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, file := range files {
		idx := i
		f := file
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)
			source := SourceName(f)
			log := logger.L().With().Str("file", base).Str("source", source).Logger()
			log.Info().Int("idx", idx+1).Int("total", len(files)).Msg("file start")

			exists, err := repo.HasIngestionForSource(gctx, source)
			if err != nil {
				log.Error().Err(err).Msg("check ingestion log failed")
				metrics.FilesProcessed.WithLabelValues(metrics.StatusFailed).Inc()
				return fmt.Errorf("file %s: check ingestion log: %w", base, err)
			}
			if exists && !force {
				log.Info().Bool("skipped", true).Msg("already ingested")
				metrics.FilesProcessed.WithLabelValues(metrics.StatusSkipped).Inc()
				return nil
			}

			res, err := AnalyzeFile(gctx, f, opts...)
			if err != nil {
				log.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				metrics.FilesProcessed.WithLabelValues(metrics.StatusFailed).Inc()
				return fmt.Errorf("file %s: %w", base, err)
			}
			if err := repo.SaveReport(gctx, source, res.Entries); err != nil {
				log.Error().Err(err).Msg("save report failed")
				metrics.FilesProcessed.WithLabelValues(metrics.StatusFailed).Inc()
				return fmt.Errorf("file %s: save report: %w", base, err)
			}
			if err := rc.Invalidate(gctx, source); err != nil {
				log.Warn().Err(err).Msg("report cache invalidation failed")
			}
			if err := repo.UpsertIngestionLog(gctx, source, base, res.Rows); err != nil {
				log.Error().Err(err).Msg("update ingestion log failed")
				metrics.FilesProcessed.WithLabelValues(metrics.StatusFailed).Inc()
				return fmt.Errorf("file %s: upsert ingestion log: %w", base, err)
			}

			metrics.FilesProcessed.WithLabelValues(metrics.StatusOK).Inc()
			log.Info().Int("rows", res.Rows).Int("companies", len(res.Companies)).Dur("elapsed", time.Since(start)).Bool("force", force).Msg("file done")
			return nil
		})
	}

	return g.Wait()
}

// listShareFiles returns the .csv files of dir in lexical order.
func listShareFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.SourceUnavailable(err, "read directory %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), fileExt) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, errs.SourceUnavailable(nil, "no %s files in %s", fileExt, dir)
	}
	return files, nil
}
