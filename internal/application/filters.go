package application

import (
	"net/url"
	"strings"

	"github.com/careersdesk/portal/internal/column"
)

// BlankSentinel is the reserved facet value matching rows whose field
// is empty or absent, distinct from any real option value.
const BlankSentinel = "__BLANK__"

type FilterState struct {
	Name         string              // substring match on full_name
	Search       string              // substring match on any of batch/phone/states/big bet
	Organisation string              // substring match on job.organisation_name
	Domain       string              // substring match on job.domain
	Location     string              // substring match on job.location
	Positions    []string            // multi-select on job.position
	Genders      []string            // multi-select on gender
	Statuses     []string            // multi-select on status
	ApplyBy      string              // exact calendar day on job.apply_by, YYYY-MM-DD
	Custom       map[string][]string // column id -> multi-select on the bag value
}

// IsActive reports whether any facet narrows the result, used to skip
// evaluation entirely when nothing is set.
func (f FilterState) IsActive() bool {
	if f.Name != "" || f.Search != "" || f.Organisation != "" || f.Domain != "" || f.Location != "" || f.ApplyBy != "" {
		return true
	}
	if len(f.Positions) > 0 || len(f.Genders) > 0 || len(f.Statuses) > 0 {
		return true
	}
	for _, selected := range f.Custom {
		if len(selected) > 0 {
			return true
		}
	}
	return false
}

// Match is a conjunction of every active facet.
func (f FilterState) Match(app Application) bool {
	if !f.IsActive() {
		return true
	}
	if !matchSubstring(app.FullName, f.Name) {
		return false
	}
	if !matchAnySubstring([]string{app.Batch, app.PhoneNumber, app.FellowshipState, app.HomeState, app.BigBet}, f.Search) {
		return false
	}
	if !matchSubstring(app.Job.OrganisationName, f.Organisation) {
		return false
	}
	if !matchSubstring(app.Job.Domain, f.Domain) {
		return false
	}
	if !matchSubstring(app.Job.Location, f.Location) {
		return false
	}
	if !matchSelect(app.Job.Position, f.Positions) {
		return false
	}
	if !matchSelect(app.Gender, f.Genders) {
		return false
	}
	if !matchSelect(app.Status, f.Statuses) {
		return false
	}
	if f.ApplyBy != "" && formatDay(app.Job.ApplyBy) != f.ApplyBy {
		return false
	}
	for columnID, selected := range f.Custom {
		if !matchSelect(app.CustomFields.Get(columnID), selected) {
			return false
		}
	}
	return true
}

// matchSelect implements the blank-sentinel contract: an empty
// selection matches everything; an empty value matches only when the
// sentinel is selected; a populated value must equal one of the
// concrete selections even when the sentinel is also selected.
func matchSelect(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if value == "" {
		for _, s := range selected {
			if s == BlankSentinel {
				return true
			}
		}
		return false
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

func matchSubstring(value, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

func matchAnySubstring(values []string, query string) bool {
	if query == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), strings.ToLower(query)) {
			return true
		}
	}
	return false
}

// ParseFilterStateFromQuery binds the admin list query string. Multi
// selects take CSVs; the per-custom-column facets come from any
// dropdown-typed custom column, so adding one at the store layer grows
// the filter surface without a code change.
func ParseFilterStateFromQuery(query url.Values, cols []column.Definition) FilterState {
	state := FilterState{
		Name:         strings.TrimSpace(query.Get("name")),
		Search:       strings.TrimSpace(query.Get("search")),
		Organisation: strings.TrimSpace(query.Get("organisation")),
		Domain:       strings.TrimSpace(query.Get("domain")),
		Location:     strings.TrimSpace(query.Get("location")),
		Positions:    splitCSV(query.Get("position")),
		Genders:      splitCSV(query.Get("gender")),
		Statuses:     splitCSV(query.Get("status")),
		ApplyBy:      strings.TrimSpace(query.Get("applyBy")),
		Custom:       make(map[string][]string),
	}
	for _, col := range cols {
		if !col.IsCustom || col.Type != column.TypeDropdown {
			continue
		}
		if selected := splitCSV(query.Get(col.ID)); len(selected) > 0 {
			state.Custom[col.ID] = selected
		}
	}
	return state
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	vals := make([]string, 0)
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			vals = append(vals, v)
		}
	}
	return vals
}
