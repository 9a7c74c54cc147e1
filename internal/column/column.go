package column

import (
	"fmt"
	"strings"

	"github.com/segmentio/ksuid"
)

type FieldType string

const (
	TypeText     FieldType = "text"
	TypeDropdown FieldType = "dropdown"
)

const (
	DefaultWidth   = 150
	customIDPrefix = "custom_"
)

type Option struct {
	Value string `json:"value"`
	Color string `json:"color"`
}

// Definition describes one grid column and/or application form input.
// Built-in definitions use the row attribute name as their ID, dotted
// ids (job.position) read through the application's job. Custom ids
// are generated and their values live in the row's custom field bag.
type Definition struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       FieldType `json:"type"`
	Options    []Option  `json:"options,omitempty"`
	Width      int       `json:"width"`
	OrderIndex int       `json:"order_index"`
	IsCustom   bool      `json:"is_custom"`
	ShowInForm bool      `json:"show_in_form"`
}

func NewCustomID() string {
	return customIDPrefix + ksuid.New().String()
}

func IsCustomID(id string) bool {
	return strings.HasPrefix(id, customIDPrefix)
}

func IsNestedID(id string) bool {
	return strings.Contains(id, ".")
}

// Validate runs before any write reaches the store.
func Validate(name string, fieldType FieldType, options []Option) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	switch fieldType {
	case TypeText:
	case TypeDropdown:
		if len(options) == 0 {
			return fmt.Errorf("dropdown column requires at least one option")
		}
		seen := make(map[string]struct{}, len(options))
		for _, opt := range options {
			if strings.TrimSpace(opt.Value) == "" {
				return fmt.Errorf("dropdown option value cannot be empty")
			}
			if _, ok := seen[opt.Value]; ok {
				return fmt.Errorf("duplicate dropdown option value %q", opt.Value)
			}
			seen[opt.Value] = struct{}{}
		}
	default:
		return fmt.Errorf("unknown column type %q", fieldType)
	}
	return nil
}

// DefaultColumns is the hard-coded fallback used when the definitions
// table cannot be read. Ordering matches the canonical 1..N layout.
func DefaultColumns() []Definition {
	return []Definition{
		{ID: "full_name", Name: "Full Name", Type: TypeText, OrderIndex: 1},
		{ID: "batch", Name: "Batch", Type: TypeText, OrderIndex: 2},
		{ID: "gender", Name: "Gender", Type: TypeDropdown, OrderIndex: 3, Options: []Option{
			{Value: "Male"}, {Value: "Female"}, {Value: "Other"}, {Value: "Prefer not to say"},
		}},
		{ID: "email_official", Name: "Email Address Official", Type: TypeText, OrderIndex: 4},
		{ID: "email_personal", Name: "Email Address Personal", Type: TypeText, OrderIndex: 5},
		{ID: "phone_number", Name: "Phone Number", Type: TypeText, OrderIndex: 6},
		{ID: "big_bet", Name: "Big Bet", Type: TypeText, OrderIndex: 7},
		{ID: "fellowship_state", Name: "Fellowship State", Type: TypeText, OrderIndex: 8},
		{ID: "home_state", Name: "Home State", Type: TypeText, OrderIndex: 9},
		{ID: "fpc_name", Name: "FPC Name", Type: TypeText, OrderIndex: 10},
		{ID: "state_spoc_name", Name: "State SPOC name", Type: TypeText, OrderIndex: 11},
		{ID: "reference_number", Name: "Reference Number", Type: TypeText, OrderIndex: 12},
		{ID: "cover_letter", Name: "Cover Letter", Type: TypeText, OrderIndex: 13},
		{ID: "resume_url", Name: "Resume", Type: TypeText, OrderIndex: 14},
		{ID: "applied_at", Name: "Applied At", Type: TypeText, OrderIndex: 15},
		{ID: "status", Name: "Status", Type: TypeText, OrderIndex: 16},
		{ID: "job.organisation_name", Name: "Organisation", Type: TypeText, OrderIndex: 17},
		{ID: "job.domain", Name: "Domain", Type: TypeText, OrderIndex: 18},
		{ID: "job.location", Name: "Location", Type: TypeText, OrderIndex: 19},
		{ID: "job.apply_by", Name: "Apply By", Type: TypeText, OrderIndex: 20},
		{ID: "job.about", Name: "About (role)", Type: TypeText, OrderIndex: 21},
		{ID: "job.compensation_range", Name: "Compensation Range", Type: TypeText, OrderIndex: 22},
		{ID: "job.pdf_url", Name: "Job PDF URL", Type: TypeText, OrderIndex: 23},
	}
}

// DefaultFormColumns is the public application form fallback.
func DefaultFormColumns() []Definition {
	form := make([]Definition, 0)
	formIDs := map[string]struct{}{
		"full_name": {}, "batch": {}, "gender": {}, "email_official": {},
		"email_personal": {}, "phone_number": {}, "big_bet": {},
		"fellowship_state": {}, "home_state": {}, "fpc_name": {}, "state_spoc_name": {},
	}
	for _, col := range DefaultColumns() {
		if _, ok := formIDs[col.ID]; ok {
			col.ShowInForm = true
			form = append(form, col)
		}
	}
	return form
}
