package application

import (
	"net/url"
	"testing"

	"github.com/careersdesk/portal/internal/column"
)

func TestFilterStateIsActive(t *testing.T) {
	cases := []struct {
		name  string
		state FilterState
		want  bool
	}{
		{"empty", FilterState{}, false},
		{"empty custom map", FilterState{Custom: map[string][]string{}}, false},
		{"name search", FilterState{Name: "asha"}, true},
		{"combined search", FilterState{Search: "bihar"}, true},
		{"position facet", FilterState{Positions: []string{"Program Manager"}}, true},
		{"apply by", FilterState{ApplyBy: "2026-03-15"}, true},
		{"custom facet", FilterState{Custom: map[string][]string{"custom_stage": {"Offer"}}}, true},
		{"custom facet empty selection", FilterState{Custom: map[string][]string{"custom_stage": {}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.IsActive(); got != tc.want {
				t.Errorf("IsActive() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterStateMatch(t *testing.T) {
	app := testApplication()
	cases := []struct {
		name  string
		state FilterState
		want  bool
	}{
		{"no filters", FilterState{}, true},
		{"name substring case insensitive", FilterState{Name: "ASHA"}, true},
		{"name mismatch", FilterState{Name: "ravi"}, false},
		{"combined search hits phone", FilterState{Search: "98765"}, true},
		{"combined search hits home state", FilterState{Search: "kerala"}, true},
		{"combined search miss", FilterState{Search: "punjab"}, false},
		{"organisation substring", FilterState{Organisation: "acme"}, true},
		{"location mismatch", FilterState{Location: "delhi"}, false},
		{"position selected", FilterState{Positions: []string{"Program Manager", "Analyst"}}, true},
		{"position not selected", FilterState{Positions: []string{"Analyst"}}, false},
		{"apply by exact day", FilterState{ApplyBy: "2026-03-15"}, true},
		{"apply by other day", FilterState{ApplyBy: "2026-03-16"}, false},
		{"custom facet match", FilterState{Custom: map[string][]string{"custom_stage": {"Interview"}}}, true},
		{"custom facet mismatch", FilterState{Custom: map[string][]string{"custom_stage": {"Offer"}}}, false},
		{"conjunction narrows", FilterState{Name: "asha", Positions: []string{"Analyst"}}, false},
		{"conjunction all pass", FilterState{Name: "asha", Genders: []string{"Female"}, Statuses: []string{"new"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.state.Match(app); got != tc.want {
				t.Errorf("Match() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchSelectBlankSentinel(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		selected []string
		want     bool
	}{
		{"no selection matches anything", "Interview", nil, true},
		{"no selection matches blank", "", nil, true},
		{"blank only, blank value", "", []string{BlankSentinel}, true},
		{"blank only, populated value", "Interview", []string{BlankSentinel}, false},
		{"blank plus concrete, blank value", "", []string{BlankSentinel, "Interview"}, true},
		{"blank plus concrete, matching value", "Interview", []string{BlankSentinel, "Interview"}, true},
		{"blank plus concrete, other value", "Offer", []string{BlankSentinel, "Interview"}, false},
		{"concrete only, blank value", "", []string{"Interview"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchSelect(tc.value, tc.selected); got != tc.want {
				t.Errorf("matchSelect(%q, %v) = %v, want %v", tc.value, tc.selected, got, tc.want)
			}
		})
	}
}

func TestMatchBlankCustomFieldOnEmptyBag(t *testing.T) {
	app := testApplication()
	app.CustomFields = CustomFields{Values: map[string]string{}}
	blankOnly := FilterState{Custom: map[string][]string{"custom_stage": {BlankSentinel}}}
	if !blankOnly.Match(app) {
		t.Error("blank sentinel should match a row with an empty bag")
	}
	concrete := FilterState{Custom: map[string][]string{"custom_stage": {"Interview"}}}
	if concrete.Match(app) {
		t.Error("concrete selection should not match a row with an empty bag")
	}
}

func TestParseFilterStateFromQuery(t *testing.T) {
	cols := []column.Definition{
		{ID: "custom_stage", Name: "Stage", Type: column.TypeDropdown, IsCustom: true},
		{ID: "custom_notes", Name: "Notes", Type: column.TypeText, IsCustom: true},
		{ID: "gender", Name: "Gender", Type: column.TypeDropdown},
	}
	query := url.Values{}
	query.Set("name", " asha ")
	query.Set("position", "Program Manager,Analyst")
	query.Set("applyBy", "2026-03-15")
	query.Set("custom_stage", "Interview,__BLANK__")
	query.Set("custom_notes", "ignored")

	state := ParseFilterStateFromQuery(query, cols)
	if state.Name != "asha" {
		t.Errorf("Name = %q, want %q", state.Name, "asha")
	}
	if len(state.Positions) != 2 {
		t.Errorf("Positions = %v, want 2 entries", state.Positions)
	}
	if state.ApplyBy != "2026-03-15" {
		t.Errorf("ApplyBy = %q", state.ApplyBy)
	}
	if got := state.Custom["custom_stage"]; len(got) != 2 {
		t.Errorf("custom_stage facet = %v, want sentinel plus one value", got)
	}
	if _, ok := state.Custom["custom_notes"]; ok {
		t.Error("text-typed custom column must not produce a facet")
	}
	if _, ok := state.Custom["gender"]; ok {
		t.Error("built-in dropdown must not appear in the custom facet map")
	}
}
