package grid

import (
	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
)

// CellKind drives renderer and editor choice per column. The variant
// is closed so a new kind is a compile-time-checked change at every
// dispatch site.
type CellKind int

const (
	KindText CellKind = iota
	KindDropdown
	KindDate
	KindLink
	KindReadOnly
)

func (k CellKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDropdown:
		return "dropdown"
	case KindDate:
		return "date"
	case KindLink:
		return "link"
	case KindReadOnly:
		return "readonly"
	}
	return "unknown"
}

// KindFor special-cases the built-in ids before falling through to the
// column type.
func KindFor(col column.Definition) CellKind {
	switch col.ID {
	case "applied_at", "job.apply_by":
		return KindDate
	case "resume_url", "job.pdf_url":
		return KindLink
	case "reference_number":
		return KindReadOnly
	}
	if !col.IsCustom && column.IsNestedID(col.ID) {
		return KindReadOnly
	}
	switch col.Type {
	case column.TypeDropdown:
		return KindDropdown
	default:
		return KindText
	}
}

// Editable reports whether a cell under this column accepts commits.
func Editable(col column.Definition) bool {
	switch KindFor(col) {
	case KindText, KindDropdown:
	default:
		return false
	}
	if col.IsCustom {
		return true
	}
	return application.IsEditableField(col.ID)
}
