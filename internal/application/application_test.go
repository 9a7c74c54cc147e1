package application

import (
	"testing"
	"time"
)

func TestCustomFieldsMerge(t *testing.T) {
	bag := CustomFields{Values: map[string]string{"custom_a": "x", "custom_b": "y"}}
	merged := bag.Merge("custom_a", "z")
	if got := merged.Get("custom_a"); got != "z" {
		t.Errorf("merged value = %q, want %q", got, "z")
	}
	if got := merged.Get("custom_b"); got != "y" {
		t.Errorf("sibling key changed to %q, want %q", got, "y")
	}
	if got := bag.Get("custom_a"); got != "x" {
		t.Errorf("original bag mutated to %q, want %q", got, "x")
	}
}

func TestCustomFieldsMergeIntoEmpty(t *testing.T) {
	var bag CustomFields
	merged := bag.Merge("custom_stage", "Interview")
	if got := merged.Get("custom_stage"); got != "Interview" {
		t.Errorf("merged value = %q, want %q", got, "Interview")
	}
	if len(merged.Values) != 1 {
		t.Errorf("merged bag size = %d, want 1", len(merged.Values))
	}
}

func TestCustomFieldsScan(t *testing.T) {
	cases := []struct {
		name string
		src  interface{}
		want map[string]string
	}{
		{"populated", []byte(`{"values":{"custom_a":"x"}}`), map[string]string{"custom_a": "x"}},
		{"empty object", []byte(`{"values":{}}`), map[string]string{}},
		{"null values", []byte(`{}`), map[string]string{}},
		{"nil source", nil, map[string]string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var bag CustomFields
			if err := bag.Scan(tc.src); err != nil {
				t.Fatalf("Scan() err = %v", err)
			}
			if bag.Values == nil {
				t.Fatal("Scan() left nil Values")
			}
			if len(bag.Values) != len(tc.want) {
				t.Fatalf("bag size = %d, want %d", len(bag.Values), len(tc.want))
			}
			for k, v := range tc.want {
				if bag.Values[k] != v {
					t.Errorf("bag[%q] = %q, want %q", k, bag.Values[k], v)
				}
			}
		})
	}
}

func TestCustomFieldsScanRejectsUnknownType(t *testing.T) {
	var bag CustomFields
	if err := bag.Scan(42); err == nil {
		t.Error("expected error scanning from int")
	}
}

func testApplication() Application {
	applyBy := time.Date(2026, 3, 15, 17, 30, 0, 0, time.UTC)
	return Application{
		ID:              "a1",
		FullName:        "Asha Verma",
		Batch:           "2025",
		Gender:          "Female",
		PhoneNumber:     "9876543210",
		FellowshipState: "Bihar",
		HomeState:       "Kerala",
		BigBet:          "Education",
		Status:          "new",
		AppliedAt:       time.Date(2026, 2, 1, 9, 15, 0, 0, time.UTC),
		Job: JobInfo{
			Position:         "Program Manager",
			OrganisationName: "Acme Foundation",
			Domain:           "Education",
			Location:         "Patna",
			ApplyBy:          &applyBy,
		},
		CustomFields: CustomFields{Values: map[string]string{"custom_stage": "Interview"}},
	}
}
