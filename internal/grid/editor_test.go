package grid

import (
	"errors"
	"testing"

	"github.com/careersdesk/portal/internal/application"
	"github.com/careersdesk/portal/internal/column"
)

type fakeWriter struct {
	fields    map[string]string
	bags      map[string]application.CustomFields
	failNext  error
	fieldCall int
	bagCall   int
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		fields: make(map[string]string),
		bags:   make(map[string]application.CustomFields),
	}
}

func (f *fakeWriter) UpdateField(rowID, columnID, value string) error {
	f.fieldCall++
	if f.failNext != nil {
		return f.failNext
	}
	f.fields[rowID+"/"+columnID] = value
	return nil
}

func (f *fakeWriter) UpdateCustomFields(rowID string, fields application.CustomFields) error {
	f.bagCall++
	if f.failNext != nil {
		return f.failNext
	}
	f.bags[rowID] = fields
	return nil
}

func editorRow() application.Application {
	return application.Application{
		ID:       "row-1",
		FullName: "Asha Verma",
		CustomFields: application.CustomFields{
			Values: map[string]string{"custom_stage": "Screening", "custom_notes": "keep"},
		},
	}
}

var (
	nameCol  = column.Definition{ID: "full_name", Name: "Full Name", Type: column.TypeText}
	stageCol = column.Definition{ID: "custom_stage", Name: "Stage", Type: column.TypeDropdown, IsCustom: true,
		Options: []column.Option{{Value: "Screening"}, {Value: "Interview"}, {Value: "Offer"}}}
)

func TestCommitBuiltInField(t *testing.T) {
	w := newFakeWriter()
	ed, err := BeginEdit(w, editorRow(), nameCol)
	if err != nil {
		t.Fatalf("BeginEdit() err = %v", err)
	}
	if ed.Phase() != PhaseEditing {
		t.Fatal("expected editing phase after BeginEdit")
	}
	ed.Input("Asha V")
	if err := ed.Commit(); err != nil {
		t.Fatalf("Commit() err = %v", err)
	}
	if ed.Phase() != PhaseViewing {
		t.Error("expected viewing phase after commit")
	}
	if got := w.fields["row-1/full_name"]; got != "Asha V" {
		t.Errorf("stored field = %q, want %q", got, "Asha V")
	}
	if ed.Display() != "Asha V" {
		t.Errorf("Display() = %q after commit", ed.Display())
	}
}

func TestCommitUnchangedSkipsWrite(t *testing.T) {
	w := newFakeWriter()
	ed, _ := BeginEdit(w, editorRow(), nameCol)
	ed.Input("Asha Verma")
	if err := ed.Commit(); err != nil {
		t.Fatalf("Commit() err = %v", err)
	}
	if w.fieldCall != 0 {
		t.Error("unchanged commit must not reach the writer")
	}
	if ed.Phase() != PhaseViewing {
		t.Error("expected viewing phase after no-op commit")
	}
}

func TestCommitCustomFieldMergesBag(t *testing.T) {
	w := newFakeWriter()
	ed, _ := BeginEdit(w, editorRow(), stageCol)
	ed.Input("Offer")
	if err := ed.Commit(); err != nil {
		t.Fatalf("Commit() err = %v", err)
	}
	bag := w.bags["row-1"]
	if got := bag.Get("custom_stage"); got != "Offer" {
		t.Errorf("bag[custom_stage] = %q, want %q", got, "Offer")
	}
	if got := bag.Get("custom_notes"); got != "keep" {
		t.Errorf("sibling bag key dropped: bag[custom_notes] = %q", got)
	}
}

func TestFailedCommitStaysEditing(t *testing.T) {
	w := newFakeWriter()
	w.failNext = errors.New("network down")
	ed, _ := BeginEdit(w, editorRow(), nameCol)
	ed.Input("changed")
	if err := ed.Commit(); err == nil {
		t.Fatal("expected commit error")
	}
	if ed.Phase() != PhaseEditing {
		t.Error("failed commit must stay in editing phase")
	}
	if ed.Display() != "Asha Verma" {
		t.Errorf("Display() = %q, want last fetched value", ed.Display())
	}
}

func TestCancelDiscardsWithoutWrite(t *testing.T) {
	w := newFakeWriter()
	ed, _ := BeginEdit(w, editorRow(), nameCol)
	ed.Input("discard me")
	ed.Cancel()
	if ed.Phase() != PhaseViewing {
		t.Error("expected viewing phase after cancel")
	}
	if w.fieldCall != 0 || w.bagCall != 0 {
		t.Error("cancel must not reach the writer")
	}
	if ed.Display() != "Asha Verma" {
		t.Errorf("Display() = %q after cancel", ed.Display())
	}
}

func TestBeginEditRejectsReadOnly(t *testing.T) {
	w := newFakeWriter()
	refCol := column.Definition{ID: "reference_number", Name: "Reference Number", Type: column.TypeText}
	if _, err := BeginEdit(w, editorRow(), refCol); err == nil {
		t.Error("expected error beginning edit on read-only column")
	}
	nestedCol := column.Definition{ID: "job.location", Name: "Location", Type: column.TypeText}
	if _, err := BeginEdit(w, editorRow(), nestedCol); err == nil {
		t.Error("expected error beginning edit on nested read-only column")
	}
}

func TestSelectOptionSingleStep(t *testing.T) {
	w := newFakeWriter()
	if err := SelectOption(w, editorRow(), stageCol, "Interview"); err != nil {
		t.Fatalf("SelectOption() err = %v", err)
	}
	if got := w.bags["row-1"].Get("custom_stage"); got != "Interview" {
		t.Errorf("bag[custom_stage] = %q, want %q", got, "Interview")
	}
}

func TestSelectOptionUnchangedSkipsWrite(t *testing.T) {
	w := newFakeWriter()
	if err := SelectOption(w, editorRow(), stageCol, "Screening"); err != nil {
		t.Fatalf("SelectOption() err = %v", err)
	}
	if w.bagCall != 0 {
		t.Error("re-selecting the current value must not reach the writer")
	}
}

func TestSelectOptionRejectsUnknownValue(t *testing.T) {
	w := newFakeWriter()
	if err := SelectOption(w, editorRow(), stageCol, "Hired"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("SelectOption() err = %v, want ErrInvalidOption", err)
	}
	if w.bagCall != 0 {
		t.Error("invalid selection must not reach the writer")
	}
}

func TestSelectOptionRejectsNonDropdown(t *testing.T) {
	w := newFakeWriter()
	if err := SelectOption(w, editorRow(), nameCol, "anything"); !errors.Is(err, ErrNotEditable) {
		t.Errorf("SelectOption() err = %v, want ErrNotEditable", err)
	}
}

func TestKindForDispatch(t *testing.T) {
	cases := []struct {
		col  column.Definition
		want CellKind
	}{
		{column.Definition{ID: "full_name", Type: column.TypeText}, KindText},
		{column.Definition{ID: "gender", Type: column.TypeDropdown}, KindDropdown},
		{column.Definition{ID: "applied_at", Type: column.TypeText}, KindDate},
		{column.Definition{ID: "job.apply_by", Type: column.TypeText}, KindDate},
		{column.Definition{ID: "resume_url", Type: column.TypeText}, KindLink},
		{column.Definition{ID: "job.pdf_url", Type: column.TypeText}, KindLink},
		{column.Definition{ID: "reference_number", Type: column.TypeText}, KindReadOnly},
		{column.Definition{ID: "job.location", Type: column.TypeText}, KindReadOnly},
		{column.Definition{ID: "custom_stage", Type: column.TypeDropdown, IsCustom: true}, KindDropdown},
	}
	for _, tc := range cases {
		if got := KindFor(tc.col); got != tc.want {
			t.Errorf("KindFor(%s) = %v, want %v", tc.col.ID, got, tc.want)
		}
	}
}
