package export

import (
	"bytes"
	"encoding/csv"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
)

func exportFixtures() ([]application.Application, []column.Definition) {
	applyBy := time.Date(2026, 3, 15, 17, 30, 0, 0, time.UTC)
	apps := []application.Application{
		{
			FullName:  "Asha Verma",
			AppliedAt: time.Date(2026, 2, 1, 9, 15, 0, 0, time.UTC),
			Job:       application.JobInfo{OrganisationName: "Acme Foundation", ApplyBy: &applyBy},
			CustomFields: application.CustomFields{
				Values: map[string]string{"custom_stage": "Interview"},
			},
		},
		{
			FullName:  "Ravi Nair",
			AppliedAt: time.Date(2026, 2, 2, 18, 45, 0, 0, time.UTC),
			Job:       application.JobInfo{OrganisationName: "Beta Trust"},
		},
	}
	cols := []column.Definition{
		{ID: "full_name", Name: "Full Name", Type: column.TypeText},
		{ID: "applied_at", Name: "Applied At", Type: column.TypeText},
		{ID: "job.organisation_name", Name: "Organisation", Type: column.TypeText},
		{ID: "custom_stage", Name: "Stage", Type: column.TypeDropdown, IsCustom: true},
	}
	return apps, cols
}

func TestBuildExportRows(t *testing.T) {
	apps, cols := exportFixtures()
	rows := BuildExportRows(apps, cols)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	first := rows[0]
	if first["Full Name"] != "Asha Verma" {
		t.Errorf("Full Name = %q", first["Full Name"])
	}
	if first["Applied At"] != "2026-02-01" {
		t.Errorf("Applied At = %q, want day-truncated date", first["Applied At"])
	}
	if first["Organisation"] != "Acme Foundation" {
		t.Errorf("Organisation = %q", first["Organisation"])
	}
	if first["Stage"] != "Interview" {
		t.Errorf("Stage = %q, want bag value", first["Stage"])
	}
	if rows[1]["Stage"] != "" {
		t.Errorf("empty bag should export empty, got %q", rows[1]["Stage"])
	}
}

func TestCSVRoundTripByHeader(t *testing.T) {
	apps, cols := exportFixtures()
	rows := BuildExportRows(apps, cols)
	headers := Headers(cols)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, headers, rows); err != nil {
		t.Fatalf("WriteCSV() err = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading back csv: %v", err)
	}
	if len(records) != len(rows)+1 {
		t.Fatalf("got %d records, want %d", len(records), len(rows)+1)
	}
	headerIdx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		headerIdx[h] = i
	}
	for rowIdx, row := range rows {
		record := records[rowIdx+1]
		for header, want := range row {
			i, ok := headerIdx[header]
			if !ok {
				t.Fatalf("header %q missing from csv", header)
			}
			if record[i] != want {
				t.Errorf("row %d %q = %q, want %q", rowIdx, header, record[i], want)
			}
		}
	}
}

func TestWriteXLSXProducesWorkbook(t *testing.T) {
	apps, cols := exportFixtures()
	rows := BuildExportRows(apps, cols)
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, Headers(cols), rows, "Applications"); err != nil {
		t.Fatalf("WriteXLSX() err = %v", err)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("output does not look like an xlsx workbook")
	}
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename("applications", "xlsx")
	pattern := regexp.MustCompile(`^applications_\d{4}-\d{2}-\d{2}T\d{2}-\d{2}-\d{2}\.xlsx$`)
	if !pattern.MatchString(name) {
		t.Errorf("GenerateFilename() = %q, want timestamped name", name)
	}
	if strings.Contains(name, ":") {
		t.Errorf("filename %q contains a colon", name)
	}
}
