package application

import (
	"testing"

	"github.com/careersdesk/portal/internal/column"
)

func TestFieldValue(t *testing.T) {
	app := testApplication()
	cases := []struct {
		name string
		col  column.Definition
		want string
	}{
		{"built-in", column.Definition{ID: "full_name"}, "Asha Verma"},
		{"status", column.Definition{ID: "status"}, "new"},
		{"nested job read", column.Definition{ID: "job.organisation_name"}, "Acme Foundation"},
		{"applied date truncated", column.Definition{ID: "applied_at"}, "2026-02-01"},
		{"apply by truncated", column.Definition{ID: "job.apply_by"}, "2026-03-15"},
		{"custom from bag", column.Definition{ID: "custom_stage", IsCustom: true}, "Interview"},
		{"custom missing from bag", column.Definition{ID: "custom_other", IsCustom: true}, ""},
		{"unknown id", column.Definition{ID: "no_such_field"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FieldValue(app, tc.col); got != tc.want {
				t.Errorf("FieldValue(%s) = %q, want %q", tc.col.ID, got, tc.want)
			}
		})
	}
}

func TestFieldValueNilApplyBy(t *testing.T) {
	app := testApplication()
	app.Job.ApplyBy = nil
	if got := FieldValue(app, column.Definition{ID: "job.apply_by"}); got != "" {
		t.Errorf("FieldValue(job.apply_by) = %q, want empty", got)
	}
}

func TestIdenticalNamesDistinctIDs(t *testing.T) {
	app := testApplication()
	app.CustomFields = CustomFields{Values: map[string]string{"custom_a": "one", "custom_b": "two"}}
	colA := column.Definition{ID: "custom_a", Name: "Stage", IsCustom: true}
	colB := column.Definition{ID: "custom_b", Name: "Stage", IsCustom: true}
	if FieldValue(app, colA) == FieldValue(app, colB) {
		t.Error("columns with identical names but distinct ids must resolve independently")
	}
}
