package dto

import "github.com/guttosm/sharepeak/internal/domain/models"

// ReportResponse represents the JSON structure returned by the report and
// analyze endpoints.
//
// Entries keep the company order of the source file header.
type ReportResponse struct {
	Source    string        `json:"source,omitempty" example:"shares_2014"` // Source name; empty for uploads
	Companies int           `json:"companies" example:"2"`                  // Number of companies in the report
	Rows      int           `json:"rows,omitempty" example:"36"`            // Data rows aggregated (analyze only)
	Entries   []ReportEntry `json:"entries"`
}

// ReportEntry is one company line of a report. Year, Month and MaxPrice are
// null when the company never received a price.
type ReportEntry struct {
	Company  string   `json:"company" example:"Acme"`
	Year     *int     `json:"year" example:"2020"`
	Month    *string  `json:"month" example:"Feb"`
	MaxPrice *float64 `json:"max_price" example:"150"`
}

// NewReportResponse converts report entries to their API shape.
func NewReportResponse(source string, rows int, entries []models.MaxPrice) ReportResponse {
	out := ReportResponse{
		Source:    source,
		Companies: len(entries),
		Rows:      rows,
		Entries:   make([]ReportEntry, len(entries)),
	}
	for i, e := range entries {
		out.Entries[i].Company = e.Company
		if e.Observed {
			year, month, price := e.Year, e.Month, e.Price
			out.Entries[i].Year = &year
			out.Entries[i].Month = &month
			out.Entries[i].MaxPrice = &price
		}
	}
	return out
}
