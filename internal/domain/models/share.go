package models

import "time"

// PeriodRow is one observation from the share data file: a period
// (year + month label) and one price per declared company.
//
// Values are positionally aligned with the header's company columns.
// Line is the 1-based line in the source file, or 0 for rows built in memory.
type PeriodRow struct {
	Year   int
	Month  string
	Values []float64
	Line   int
}

// CompanyRecord is the running maximum for a single company.
//
// Observed is false until the first value is seen. While false, MaxPrice,
// Year and Month hold zero values and carry no meaning.
type CompanyRecord struct {
	Name     string
	MaxPrice float64
	Year     int
	Month    string
	Observed bool
}

// MaxPrice is one line of the final report.
//
// swagger:model MaxPrice
type MaxPrice struct {
	Company  string  `json:"company" example:"Acme"`
	Year     int     `json:"year" example:"2020"`
	Month    string  `json:"month" example:"Feb"`
	Price    float64 `json:"max_price" example:"150"`
	Observed bool    `json:"observed" example:"true"`
}

// IngestionLog describes one persisted report, keyed by source name.
type IngestionLog struct {
	Source     string    `json:"source" example:"shares_2014"`
	Filename   string    `json:"filename" example:"shares_2014.csv"`
	RowCount   int       `json:"row_count" example:"144"`
	IngestedAt time.Time `json:"ingested_at"`
}
