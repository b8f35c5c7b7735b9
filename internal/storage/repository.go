package storage

import (
	"context"
	"database/sql"

	"github.com/guttosm/sharepeak/internal/domain/models"
	pq "github.com/lib/pq"
)

// ReportsRepository defines contract for DB operations.
type ReportsRepository interface {
	SaveReport(ctx context.Context, source string, entries []models.MaxPrice) error
	GetReport(ctx context.Context, source string) ([]models.MaxPrice, error)
	HasIngestionForSource(ctx context.Context, source string) (bool, error)
	UpsertIngestionLog(ctx context.Context, source, filename string, rowCount int) error
	ListSources(ctx context.Context) ([]models.IngestionLog, error)
}

type reportsRepository struct {
	db *sql.DB
}

func NewReportsRepository(db *sql.DB) ReportsRepository {
	return &reportsRepository{db: db}
}

// SaveReport replaces the stored report of a source in a single transaction.
// Entries are kept in report order through the position column; companies
// without any observation are stored with NULL year, month and price.
func (r *reportsRepository) SaveReport(ctx context.Context, source string, entries []models.MaxPrice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM share_max_prices WHERE source = $1`, source); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"share_max_prices",
		"source",
		"position",
		"company",
		"year",
		"month",
		"max_price",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for i, e := range entries {
		var year, month, price interface{}
		if e.Observed {
			year, month, price = e.Year, e.Month, e.Price
		}
		if _, err := stmt.ExecContext(ctx, source, i, e.Company, year, month, price); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetReport returns the stored report for a source in declaration order,
// or nil, nil when the source is unknown.
func (r *reportsRepository) GetReport(ctx context.Context, source string) ([]models.MaxPrice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT company, year, month, max_price
		FROM share_max_prices
		WHERE source = $1
		ORDER BY position
	`, source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.MaxPrice
	for rows.Next() {
		var (
			e     models.MaxPrice
			year  sql.NullInt64
			month sql.NullString
			price sql.NullFloat64
		)
		if err := rows.Scan(&e.Company, &year, &month, &price); err != nil {
			return nil, err
		}
		if price.Valid {
			e.Observed = true
			e.Year = int(year.Int64)
			e.Month = month.String
			e.Price = price.Float64
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasIngestionForSource checks if a report was already recorded for a source.
func (r *reportsRepository) HasIngestionForSource(ctx context.Context, source string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE source = $1)`, source).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a source.
func (r *reportsRepository) UpsertIngestionLog(ctx context.Context, source, filename string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (source, filename, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (source)
		DO UPDATE SET filename = EXCLUDED.filename,
					  row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, source, filename, rowCount)
	return err
}

// ListSources returns every ingested source, most recent first.
func (r *reportsRepository) ListSources(ctx context.Context) ([]models.IngestionLog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT source, filename, row_count, ingested_at FROM ingestion_log ORDER BY ingested_at DESC, source`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.IngestionLog
	for rows.Next() {
		var l models.IngestionLog
		if err := rows.Scan(&l.Source, &l.Filename, &l.RowCount, &l.IngestedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
