package service

import (
	"context"
	"io"

	"github.com/guttosm/sharepeak/internal/cache"
	"github.com/guttosm/sharepeak/internal/domain/models"
	"github.com/guttosm/sharepeak/internal/ingestion"
	"github.com/guttosm/sharepeak/internal/logger"
	"github.com/guttosm/sharepeak/internal/storage"
)

// ReportService defines business logic for share max price reports.
type ReportService interface {
	GetReport(ctx context.Context, source string) ([]models.MaxPrice, error)
	ListSources(ctx context.Context) ([]models.IngestionLog, error)
	Analyze(ctx context.Context, r io.Reader) (*ingestion.Result, error)
}

type reportService struct {
	repo  storage.ReportsRepository
	cache cache.ReportCache
	opts  []ingestion.Option
}

// NewReportService wires the repository and an optional cache (nil means no cache).
// opts are applied to every Analyze call.
func NewReportService(repo storage.ReportsRepository, c cache.ReportCache, opts ...ingestion.Option) ReportService {
	if c == nil {
		c = cache.Noop{}
	}
	return &reportService{repo: repo, cache: c, opts: opts}
}

// GetReport reads through the cache. Cache failures are logged and ignored.
// A nil slice with nil error means the source is unknown.
func (s *reportService) GetReport(ctx context.Context, source string) ([]models.MaxPrice, error) {
	if entries, ok, err := s.cache.Get(ctx, source); err != nil {
		logger.L().Warn().Err(err).Str("source", source).Msg("report cache read failed")
	} else if ok {
		return entries, nil
	}

	entries, err := s.repo.GetReport(ctx, source)
	if err != nil || entries == nil {
		return entries, err
	}

	if err := s.cache.Set(ctx, source, entries); err != nil {
		logger.L().Warn().Err(err).Str("source", source).Msg("report cache write failed")
	}
	return entries, nil
}

func (s *reportService) ListSources(ctx context.Context) ([]models.IngestionLog, error) {
	return s.repo.ListSources(ctx)
}

// Analyze aggregates an uploaded share data stream without persisting it.
func (s *reportService) Analyze(ctx context.Context, r io.Reader) (*ingestion.Result, error) {
	return ingestion.Analyze(ctx, r, s.opts...)
}
