package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/guttosm/sharepeak/internal/domain/errs"
	"github.com/guttosm/sharepeak/internal/domain/models"
	"github.com/guttosm/sharepeak/internal/ingestion"
)

type stubRepo struct {
	report []models.MaxPrice
	err    error
	calls  int
}

func (s *stubRepo) SaveReport(context.Context, string, []models.MaxPrice) error { return nil }
func (s *stubRepo) GetReport(context.Context, string) ([]models.MaxPrice, error) {
	s.calls++
	return s.report, s.err
}
func (s *stubRepo) HasIngestionForSource(context.Context, string) (bool, error)   { return false, nil }
func (s *stubRepo) UpsertIngestionLog(context.Context, string, string, int) error { return nil }
func (s *stubRepo) ListSources(context.Context) ([]models.IngestionLog, error) {
	return []models.IngestionLog{{Source: "shares"}}, nil
}

type mapCache struct {
	data   map[string][]models.MaxPrice
	getErr error
}

func (m *mapCache) Get(_ context.Context, source string) ([]models.MaxPrice, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[source]
	return v, ok, nil
}
func (m *mapCache) Set(_ context.Context, source string, entries []models.MaxPrice) error {
	m.data[source] = entries
	return nil
}
func (m *mapCache) Invalidate(_ context.Context, source string) error {
	delete(m.data, source)
	return nil
}

var acme = []models.MaxPrice{{Company: "Acme", Year: 2020, Month: "Feb", Price: 150, Observed: true}}

func TestReportService_GetReport_TableDriven(t *testing.T) {
	cases := []struct {
		name      string
		repo      *stubRepo
		cache     *mapCache
		wantErr   bool
		wantNil   bool
		wantCalls int
	}{
		{name: "repo hit fills cache", repo: &stubRepo{report: acme}, cache: &mapCache{data: map[string][]models.MaxPrice{}}, wantCalls: 1},
		{name: "cache hit skips repo", repo: &stubRepo{}, cache: &mapCache{data: map[string][]models.MaxPrice{"shares": acme}}, wantCalls: 0},
		{name: "cache error falls back", repo: &stubRepo{report: acme}, cache: &mapCache{data: map[string][]models.MaxPrice{}, getErr: errors.New("down")}, wantCalls: 1},
		{name: "unknown source", repo: &stubRepo{}, cache: &mapCache{data: map[string][]models.MaxPrice{}}, wantNil: true, wantCalls: 1},
		{name: "repo error", repo: &stubRepo{err: errors.New("boom")}, cache: &mapCache{data: map[string][]models.MaxPrice{}}, wantErr: true, wantNil: true, wantCalls: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewReportService(tc.repo, tc.cache)
			out, err := svc.GetReport(context.Background(), "shares")
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tc.wantErr)
			}
			if (out == nil) != tc.wantNil {
				t.Fatalf("out=%+v, wantNil=%v", out, tc.wantNil)
			}
			if tc.repo.calls != tc.wantCalls {
				t.Fatalf("repo calls=%d, want %d", tc.repo.calls, tc.wantCalls)
			}
			if !tc.wantNil && tc.cache.getErr == nil {
				if _, ok := tc.cache.data["shares"]; !ok {
					t.Fatalf("expected report cached")
				}
			}
		})
	}
}

func TestReportService_NilCacheAndList(t *testing.T) {
	svc := NewReportService(&stubRepo{report: acme}, nil)
	out, err := svc.GetReport(context.Background(), "shares")
	if err != nil || len(out) != 1 {
		t.Fatalf("unexpected out=%+v err=%v", out, err)
	}
	logs, err := svc.ListSources(context.Background())
	if err != nil || len(logs) != 1 {
		t.Fatalf("unexpected logs=%+v err=%v", logs, err)
	}
}

func TestReportService_Analyze(t *testing.T) {
	svc := NewReportService(&stubRepo{}, nil, ingestion.WithComma(';'))

	res, err := svc.Analyze(context.Background(), strings.NewReader("Year;Month;X\n1999;Dec;42\n"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0] != (models.MaxPrice{Company: "X", Year: 1999, Month: "Dec", Price: 42, Observed: true}) {
		t.Fatalf("unexpected entries %+v", res.Entries)
	}

	if _, err := svc.Analyze(context.Background(), strings.NewReader("Year;Month;X\n1999;Dec\n")); !errors.Is(err, errs.ErrRowShape) {
		t.Fatalf("expected row shape error, got %v", err)
	}
}
