// Package report renders max price reports as a tab separated text table.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guttosm/sharepeak/internal/domain/models"
)

const (
	header     = "Company Name\tYear\tMonth\tMax. Price"
	unobserved = "-"
)

// WriteTable writes entries in the given order:
//
//	<blank line>
//	Company Name	Year	Month	Max. Price
//	<blank line>
//	Acme	2020	Feb	150
//
// Companies without any observed price print "-" in the last three columns.
func WriteTable(w io.Writer, entries []models.MaxPrice) error {
	if _, err := fmt.Fprintf(w, "\n%s\n\n", header); err != nil {
		return err
	}
	for _, e := range entries {
		year, month, price := unobserved, unobserved, unobserved
		if e.Observed {
			year = strconv.Itoa(e.Year)
			month = e.Month
			price = FormatPrice(e.Price)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Company, year, month, price); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable is WriteTable into a string.
func FormatTable(entries []models.MaxPrice) string {
	var b strings.Builder
	_ = WriteTable(&b, entries)
	return b.String()
}

// FormatPrice renders the shortest decimal that round-trips, e.g. 150 or 12.5.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
