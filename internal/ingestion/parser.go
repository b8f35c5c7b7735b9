package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/guttosm/sharepeak/internal/domain/errs"
	"github.com/guttosm/sharepeak/internal/domain/models"
)

// leadingHeaders are the period columns every share data file starts with.
// Company columns follow them.
var leadingHeaders = []string{"Year", "Month"}

const utf8BOM = "\ufeff"

// Option customizes a Reader.
type Option func(*options)

type options struct {
	comma rune
}

// WithComma sets the field delimiter (default ',').
func WithComma(c rune) Option {
	return func(o *options) {
		if c != 0 {
			o.comma = c
		}
	}
}

// Reader yields PeriodRows from a delimited share data stream.
//
// The header is read and validated by NewReader; Next then returns one row
// per record until io.EOF. Any malformed record is a hard error.
type Reader struct {
	csv       *csv.Reader
	companies []string
}

// NewReader reads and validates the header of r.
//
// It fails with errs.KindConfiguration when:
//   - the stream is empty (no header)
//   - the first two columns are not Year and Month
//   - no company column follows them
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := options{comma: ','}
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.Comma = o.comma
	cr.FieldsPerRecord = -1 // column count is checked per row against the header
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.Configuration("missing header row")
		}
		return nil, errs.Parse(err, "read header")
	}

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = strings.TrimSpace(h)
	}
	cells[0] = strings.TrimPrefix(cells[0], utf8BOM)

	if len(cells) < len(leadingHeaders) {
		return nil, errs.Configuration("invalid header: expected %s before company columns", strings.Join(leadingHeaders, ", ")).AtLine(1)
	}
	for i, want := range leadingHeaders {
		if !strings.EqualFold(cells[i], want) {
			return nil, errs.Configuration("invalid header at col %d: expected %q, got %q", i+1, want, cells[i]).AtLine(1)
		}
	}
	companies := cells[len(leadingHeaders):]
	if len(companies) == 0 {
		return nil, errs.Configuration("no companies declared in header").AtLine(1)
	}

	return &Reader{csv: cr, companies: companies}, nil
}

// Companies returns the company names declared by the header, in order.
func (r *Reader) Companies() []string {
	return append([]string(nil), r.companies...)
}

// Next returns the next row, or io.EOF once the stream is exhausted.
func (r *Reader) Next(ctx context.Context) (models.PeriodRow, error) {
	select {
	case <-ctx.Done():
		return models.PeriodRow{}, ctx.Err()
	default:
	}

	rec, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return models.PeriodRow{}, io.EOF
		}
		return models.PeriodRow{}, errs.Parse(err, "malformed record")
	}
	line, _ := r.csv.FieldPos(0)

	want := len(leadingHeaders) + len(r.companies)
	if len(rec) != want {
		return models.PeriodRow{}, errs.RowShape("invalid column count: expected %d got %d", want, len(rec)).AtLine(line)
	}

	row, perr := recordToRow(rec, r.companies)
	if perr != nil {
		return models.PeriodRow{}, perr.AtLine(line)
	}
	row.Line = line
	return row, nil
}

// recordToRow converts a record whose length already matches the header.
//
// Column order:
//
//	0    Year   → PeriodRow.Year (integer)
//	1    Month  → PeriodRow.Month (label, kept as-is)
//	2..n price  → PeriodRow.Values (dot decimal, finite)
func recordToRow(rec []string, companies []string) (models.PeriodRow, *errs.Error) {
	var row models.PeriodRow

	year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return row, errs.Parse(err, "invalid Year %q", rec[0])
	}
	row.Year = year

	row.Month = strings.TrimSpace(rec[1])
	if row.Month == "" {
		return row, errs.Parse(nil, "empty Month")
	}

	row.Values = make([]float64, len(companies))
	for i, cell := range rec[len(leadingHeaders):] {
		s := strings.TrimSpace(cell)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return row, errs.Parse(err, "invalid price %q for %s", s, companies[i])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return row, errs.Parse(nil, "invalid price %q for %s", s, companies[i])
		}
		row.Values[i] = v
	}
	return row, nil
}
