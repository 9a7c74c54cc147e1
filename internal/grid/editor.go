package grid

import (
	"errors"
	"fmt"

	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
)

var (
	ErrNotEditable   = errors.New("column is not editable")
	ErrInvalidOption = errors.New("value is not a valid option")
)

type CellPhase int

const (
	PhaseViewing CellPhase = iota
	PhaseEditing
)

// FieldWriter is the slice of the application repository cell commits
// go through.
type FieldWriter interface {
	UpdateField(rowID, columnID, value string) error
	UpdateCustomFields(rowID string, fields application.CustomFields) error
}

// CellEditor runs the per-cell lifecycle: Viewing, Editing, then
// commit or cancel back to Viewing. A failed commit stays in Editing
// with the error surfaced, never silently reverted.
type CellEditor struct {
	writer    FieldWriter
	row       application.Application
	col       column.Definition
	phase     CellPhase
	committed string
	pending   string
}

// BeginEdit seeds the inline input with the cell's current value.
func BeginEdit(writer FieldWriter, row application.Application, col column.Definition) (*CellEditor, error) {
	if !Editable(col) {
		return nil, fmt.Errorf("column %q: %w", col.ID, ErrNotEditable)
	}
	current := application.FieldValue(row, col)
	return &CellEditor{
		writer:    writer,
		row:       row,
		col:       col,
		phase:     PhaseEditing,
		committed: current,
		pending:   current,
	}, nil
}

func (e *CellEditor) Phase() CellPhase {
	return e.phase
}

// Display is the last value this editor fetched or successfully
// committed.
func (e *CellEditor) Display() string {
	return e.committed
}

func (e *CellEditor) Input(value string) {
	if e.phase != PhaseEditing {
		return
	}
	e.pending = value
}

// Commit writes the pending value when it changed: custom columns
// merge into the row's bag preserving sibling keys, built-ins update
// the single field.
func (e *CellEditor) Commit() error {
	if e.phase != PhaseEditing {
		return nil
	}
	if e.pending == e.committed {
		e.phase = PhaseViewing
		return nil
	}
	var err error
	if e.col.IsCustom || column.IsCustomID(e.col.ID) {
		merged := e.row.CustomFields.Merge(e.col.ID, e.pending)
		if err = e.writer.UpdateCustomFields(e.row.ID, merged); err == nil {
			e.row.CustomFields = merged
		}
	} else {
		err = e.writer.UpdateField(e.row.ID, e.col.ID, e.pending)
	}
	if err != nil {
		return err
	}
	e.committed = e.pending
	e.phase = PhaseViewing
	return nil
}

// Cancel discards the pending value without touching the writer.
func (e *CellEditor) Cancel() {
	if e.phase != PhaseEditing {
		return
	}
	e.pending = e.committed
	e.phase = PhaseViewing
}

// SelectOption is the single-step dropdown commit: no Viewing/Editing
// split, the selection goes straight to the writer.
func SelectOption(writer FieldWriter, row application.Application, col column.Definition, value string) error {
	if KindFor(col) != KindDropdown {
		return fmt.Errorf("column %q is not a dropdown: %w", col.ID, ErrNotEditable)
	}
	valid := false
	for _, opt := range col.Options {
		if opt.Value == value {
			valid = true
			break
		}
	}
	if !valid && value != "" {
		return fmt.Errorf("value %q on column %q: %w", value, col.ID, ErrInvalidOption)
	}
	editor, err := BeginEdit(writer, row, col)
	if err != nil {
		return err
	}
	editor.Input(value)
	return editor.Commit()
}
