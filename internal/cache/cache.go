// Package cache keeps recently served reports close to the API.
package cache

import (
	"context"

	"github.com/guttosm/sharepeak/internal/domain/models"
)

// ReportCache stores reports keyed by source.
type ReportCache interface {
	Get(ctx context.Context, source string) ([]models.MaxPrice, bool, error)
	Set(ctx context.Context, source string, entries []models.MaxPrice) error
	Invalidate(ctx context.Context, source string) error
}

// Noop is used when no cache is configured; every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]models.MaxPrice, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []models.MaxPrice) error         { return nil }
func (Noop) Invalidate(context.Context, string) error                     { return nil }
