// Package aggregator tracks, per company, the highest share price seen across
// an ordered sequence of period rows and the period where it first occurred.
package aggregator

import (
	"strings"

	"github.com/guttosm/sharepeak/internal/domain/errs"
	"github.com/guttosm/sharepeak/internal/domain/models"
)

// Aggregator holds one CompanyRecord per declared company, indexed by the
// company's position in the header. It is not safe for concurrent use.
type Aggregator struct {
	records []models.CompanyRecord
	index   map[string]int
	rows    int
}

// New creates an aggregator for the given companies, in declaration order.
//
// Fails with errs.KindConfiguration when names is empty, or when a name is
// blank or declared twice.
func New(names []string) (*Aggregator, error) {
	if len(names) == 0 {
		return nil, errs.Configuration("no companies declared in header")
	}

	a := &Aggregator{
		records: make([]models.CompanyRecord, len(names)),
		index:   make(map[string]int, len(names)),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errs.Configuration("blank company name at column %d", i+3)
		}
		if prev, dup := a.index[name]; dup {
			return nil, errs.Configuration("duplicate company %q at columns %d and %d", name, prev+3, i+3)
		}
		a.index[name] = i
		a.records[i] = models.CompanyRecord{Name: name}
	}
	return a, nil
}

// Observe folds one row into the running maxima. A record changes only on
// its first value or on a strictly greater one, so ties keep the earliest period.
//
// Fails with errs.KindRowShape, before touching any record, when the row
// doesn't carry exactly one value per company.
func (a *Aggregator) Observe(row models.PeriodRow) error {
	if len(row.Values) != len(a.records) {
		e := errs.RowShape("expected %d prices, got %d", len(a.records), len(row.Values))
		if row.Line > 0 {
			return e.AtLine(row.Line)
		}
		return e
	}

	for i, v := range row.Values {
		rec := &a.records[i]
		if rec.Observed && v <= rec.MaxPrice {
			continue
		}
		rec.MaxPrice = v
		rec.Year = row.Year
		rec.Month = row.Month
		rec.Observed = true
	}
	a.rows++
	return nil
}

// Report returns one entry per company in declaration order. Companies that
// never received a value are included with Observed=false.
func (a *Aggregator) Report() []models.MaxPrice {
	out := make([]models.MaxPrice, len(a.records))
	for i, rec := range a.records {
		out[i] = models.MaxPrice{
			Company:  rec.Name,
			Year:     rec.Year,
			Month:    rec.Month,
			Price:    rec.MaxPrice,
			Observed: rec.Observed,
		}
	}
	return out
}

// Record returns the current state for a company by name.
func (a *Aggregator) Record(name string) (models.CompanyRecord, bool) {
	i, ok := a.index[name]
	if !ok {
		return models.CompanyRecord{}, false
	}
	return a.records[i], true
}

// Companies returns the declared company names in order.
func (a *Aggregator) Companies() []string {
	out := make([]string, len(a.records))
	for i, rec := range a.records {
		out[i] = rec.Name
	}
	return out
}

// Rows returns how many rows have been observed.
func (a *Aggregator) Rows() int { return a.rows }

// Aggregate runs a fresh aggregator over rows. On any error no report is returned.
func Aggregate(names []string, rows []models.PeriodRow) ([]models.MaxPrice, error) {
	a, err := New(names)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := a.Observe(row); err != nil {
			return nil, err
		}
	}
	return a.Report(), nil
}
