package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/guttosm/sharepeak/internal/domain/models"
)

func TestFormatTable(t *testing.T) {
	entries := []models.MaxPrice{
		{Company: "Acme", Year: 2020, Month: "Feb", Price: 150, Observed: true},
		{Company: "Globex", Year: 2020, Month: "Mar", Price: 250.75, Observed: true},
		{Company: "Initech"},
	}
	want := "\nCompany Name\tYear\tMonth\tMax. Price\n\n" +
		"Acme\t2020\tFeb\t150\n" +
		"Globex\t2020\tMar\t250.75\n" +
		"Initech\t-\t-\t-\n"
	if got := FormatTable(entries); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{42: "42", 12.5: "12.5", -3: "-3", 0: "0"}
	for in, want := range cases {
		if got := FormatPrice(in); got != want {
			t.Fatalf("FormatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriteTable_WriterError(t *testing.T) {
	if err := WriteTable(failWriter{}, nil); err == nil {
		t.Fatalf("expected writer error")
	}
	lines := strings.Split(FormatTable(nil), "\n")
	if len(lines) < 2 || lines[1] != header {
		t.Fatalf("unexpected header lines %q", lines)
	}
}
