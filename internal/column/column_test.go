package column

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		colName   string
		fieldType FieldType
		options   []Option
		wantErr   bool
	}{
		{"text column", "Stage", TypeText, nil, false},
		{"empty name", "", TypeText, nil, true},
		{"whitespace name", "   ", TypeText, nil, true},
		{"dropdown with options", "Stage", TypeDropdown, []Option{{Value: "Screening"}, {Value: "Offer"}}, false},
		{"dropdown without options", "Stage", TypeDropdown, nil, true},
		{"dropdown duplicate values", "Stage", TypeDropdown, []Option{{Value: "Offer"}, {Value: "Offer"}}, true},
		{"dropdown empty option value", "Stage", TypeDropdown, []Option{{Value: " "}}, true},
		{"unknown type", "Stage", FieldType("number"), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.colName, tc.fieldType, tc.options)
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate(%q, %q) err = %v, wantErr %v", tc.colName, tc.fieldType, err, tc.wantErr)
			}
		})
	}
}

func TestNewCustomID(t *testing.T) {
	a := NewCustomID()
	b := NewCustomID()
	if a == b {
		t.Fatalf("expected unique ids, got %q twice", a)
	}
	if !IsCustomID(a) {
		t.Errorf("NewCustomID() = %q, not recognised as custom", a)
	}
	if IsCustomID("full_name") {
		t.Error("built-in id recognised as custom")
	}
	if IsCustomID("job.position") {
		t.Error("nested id recognised as custom")
	}
}

func TestDefaultColumnsOrdering(t *testing.T) {
	cols := DefaultColumns()
	if len(cols) != 23 {
		t.Fatalf("expected 23 default columns, got %d", len(cols))
	}
	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if col.OrderIndex != i+1 {
			t.Errorf("column %s order_index = %d, want %d", col.ID, col.OrderIndex, i+1)
		}
		if _, ok := seen[col.ID]; ok {
			t.Errorf("duplicate column id %s", col.ID)
		}
		seen[col.ID] = struct{}{}
		if col.IsCustom {
			t.Errorf("default column %s marked custom", col.ID)
		}
	}
}

func TestDefaultFormColumns(t *testing.T) {
	form := DefaultFormColumns()
	if len(form) == 0 {
		t.Fatal("expected form fallback columns")
	}
	for _, col := range form {
		if !col.ShowInForm {
			t.Errorf("form column %s has show_in_form false", col.ID)
		}
		if IsNestedID(col.ID) {
			t.Errorf("nested id %s must not appear on the public form", col.ID)
		}
	}
}
